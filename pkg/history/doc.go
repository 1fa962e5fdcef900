// Package history keeps a SQLite audit log of routing decisions so a
// user can answer "why did that file move" after the fact.
package history

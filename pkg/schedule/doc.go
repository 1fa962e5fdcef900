// Package schedule owns delayed deletion: a JSON-backed store of
// path -> deadline entries and a cron-driven scanner that trashes files
// once their deadline passes.
package schedule

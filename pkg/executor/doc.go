// Package executor applies approved queue entries to the filesystem:
// moves and copies with conflict-safe naming, plus the capability
// queues (encrypt, decrypt, compress, extract) via injected
// implementations.
package executor

package queue

import "fmt"

// PersistError indicates a queue file could not be read or rewritten.
// The mutation it guards is considered not-committed.
type PersistError struct {
	Path  string
	Op    string
	Cause error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("queue %s %q: %v", e.Op, e.Path, e.Cause)
}

func (e *PersistError) Unwrap() error { return e.Cause }

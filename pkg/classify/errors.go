package classify

import "fmt"

// ClassificationError wraps a collaborator failure. Callers always
// degrade it to a fallback label; it exists so logs can say what failed.
type ClassificationError struct {
	Op    string
	Cause error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification %s failed: %v", e.Op, e.Cause)
}

func (e *ClassificationError) Unwrap() error { return e.Cause }

// UnresolvedVariableError indicates a target template could not be fully
// resolved even after AI assistance. The action is dropped and the file
// stays un-queued.
type UnresolvedVariableError struct {
	Template string
	Variable string
}

func (e *UnresolvedVariableError) Error() string {
	return fmt.Sprintf("template %q: variable %q could not be resolved", e.Template, e.Variable)
}

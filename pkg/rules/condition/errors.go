package condition

import "fmt"

// ParseError indicates a condition expression that does not conform to
// the restricted grammar.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("condition parse error at offset %d: %s", e.Pos, e.Message)
}

// UndefinedVariableError indicates a condition referenced a variable not
// present in the evaluation context.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable %q", e.Name)
}

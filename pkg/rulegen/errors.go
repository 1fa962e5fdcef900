package rulegen

import "fmt"

// MalformedRuleError is returned when the collaborator's response does
// not parse into a valid rule.
type MalformedRuleError struct {
	Response string
	Cause    error
}

func (e *MalformedRuleError) Error() string {
	return fmt.Sprintf("collaborator returned malformed rule: %v", e.Cause)
}

func (e *MalformedRuleError) Unwrap() error {
	return e.Cause
}

package rules

import "errors"

// ErrEmpty indicates an attempt to pop a rule from an empty rule set.
var ErrEmpty = errors.New("no rules to remove")

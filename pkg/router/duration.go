package router

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InvalidDurationError reports a retention string that could not be
// parsed.
type InvalidDurationError struct {
	Input string
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid retention duration %q", e.Input)
}

// ParseRetention parses a human retention string like "3 days" or
// "1 hour" into a duration. The unit is case-insensitive and may be
// singular or plural.
func ParseRetention(s string) (time.Duration, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, &InvalidDurationError{Input: s}
	}

	value, err := strconv.Atoi(fields[0])
	if err != nil || value < 0 {
		return 0, &InvalidDurationError{Input: s}
	}

	unit := strings.TrimSuffix(strings.ToLower(fields[1]), "s")
	switch unit {
	case "day":
		return time.Duration(value) * 24 * time.Hour, nil
	case "hour":
		return time.Duration(value) * time.Hour, nil
	case "minute":
		return time.Duration(value) * time.Minute, nil
	case "second":
		return time.Duration(value) * time.Second, nil
	default:
		return 0, &InvalidDurationError{Input: s}
	}
}

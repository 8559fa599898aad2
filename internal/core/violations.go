package core

import "strings"

// Violation is a single violated input constraint.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations collects every constraint violated by a request. Validation
// runs to completion so callers see the full list, not just the first
// failure.
type Violations []Violation

func (v Violations) Error() string {
	if len(v) == 0 {
		return "no violations"
	}
	parts := make([]string, len(v))
	for i, violation := range v {
		parts[i] = violation.Field + ": " + violation.Message
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Add appends a violation and returns the updated list.
func (v Violations) Add(field, message string) Violations {
	return append(v, Violation{Field: field, Message: message})
}

// OrNil returns the list as an error, or nil when nothing was violated.
func (v Violations) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

package finance

import (
	"fmt"
	"strings"
)

// Issue is a single field constraint violation.
type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string { return i.Field + ": " + i.Message }

// ValidationError lists every field of a record that failed validation.
type ValidationError struct {
	Record string // "transaction" or "holding"
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("invalid %s: %s", e.Record, strings.Join(parts, "; "))
}

// Has reports whether field has an issue.
func (e *ValidationError) Has(field string) bool {
	for _, issue := range e.Issues {
		if issue.Field == field {
			return true
		}
	}
	return false
}

// add records an issue on field.
func (e *ValidationError) add(field, format string, args ...any) {
	e.Issues = append(e.Issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}

// orNil returns e only if it has issues.
func (e *ValidationError) orNil() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}

// PreconditionError is returned when an operation cannot start on the current records.
// Nothing has been written when it is returned.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string { return fmt.Sprintf("cannot %s: %s", e.Op, e.Reason) }

func precondition(op, format string, args ...any) *PreconditionError {
	return &PreconditionError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

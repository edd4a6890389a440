package lead

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

var (
	// ErrNotFound is returned when no lead has the requested id.
	ErrNotFound = eris.New("lead not found")

	// ErrValidation is the sentinel every *ValidationError unwraps to.
	ErrValidation = eris.New("lead validation failed")
)

// ValidationError lists the fields that failed validation, keyed by their
// JSON name.
type ValidationError struct {
	Op     string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	msg := ErrValidation.Error()
	if len(parts) > 0 {
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

// Unwrap makes errors.Is(err, ErrValidation) hold for every ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(op, field, msg string) *ValidationError {
	return &ValidationError{Op: op, Fields: map[string]string{field: msg}}
}

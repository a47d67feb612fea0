package prospect

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no prospect has the requested ID.
	ErrNotFound = errors.New("not found")

	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a rejected input field. Nothing is written when
// a store operation returns one.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func notFound(id int64) error {
	return fmt.Errorf("prospect %d: %w", id, ErrNotFound)
}

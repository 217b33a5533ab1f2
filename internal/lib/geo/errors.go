package geo

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports an input that cannot describe a valid spherical
// quantity: an out-of-range coordinate, a malformed triangle, an
// interpolation fraction outside [0, 1] or an unsolvable trigonometric law.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// Is lets callers test for ErrValidation without knowing the concrete field.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationError(field string, value any, format string, args ...any) error {
	return &ValidationError{
		Field:  field,
		Value:  value,
		Reason: fmt.Sprintf(format, args...),
	}
}

// IsValidationError reports whether err (or anything it wraps) is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

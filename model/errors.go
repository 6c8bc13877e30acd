package model

import (
	"errors"
	"fmt"
)

// ValidationError is returned for caller input that fails validation before
// any composing or rendering happens.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

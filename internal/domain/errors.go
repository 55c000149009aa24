package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("string not found")
	// ErrAlreadyExists signals duplicate content.
	ErrAlreadyExists = errors.New("string already exists")
	// ErrValidation signals malformed or missing client input.
	ErrValidation = errors.New("validation failed")
	// ErrQueryNotUnderstood signals a natural-language query no rule recognizes.
	ErrQueryNotUnderstood = errors.New("unable to parse natural language query")
)

// ValidationError wraps ErrValidation with the offending field and reason.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation creates a field-level validation error.
func NewValidation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for corpus and embedding failures.
var (
	ErrEmptyCorpus       = errors.New("empty corpus")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrNoEmbedding       = errors.New("record has no embedding")
	ErrMissingColumn     = errors.New("missing column")
	ErrMissingField      = errors.New("missing field")
)

// ValidationError wraps a sentinel with the field and value that failed.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}

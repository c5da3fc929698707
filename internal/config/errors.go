package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidValue indicates a setting value outside its allowed range.
	ErrInvalidValue = errors.New("invalid value")

	// ErrTypeMismatch indicates the value type doesn't match the expected type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// ValidationError reports a setting that failed validation.
type ValidationError struct {
	// Key is the dot-separated setting path (e.g., "buffer.chunk_size").
	Key string
	// Value is the rejected value.
	Value any
	// Reason describes the constraint that was violated.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Key, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidValue
}

// TypeError is returned when a setting has the wrong type.
type TypeError struct {
	Key      string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error at %s: expected %s, got %s", e.Key, e.Expected, e.Actual)
}

func (e *TypeError) Unwrap() error {
	return ErrTypeMismatch
}

package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the referenced application doesn't exist
var ErrNotFound = errors.New("application not found")

// ValidationError reports malformed or missing input for a single field
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func validationErr(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

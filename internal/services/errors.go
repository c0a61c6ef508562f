package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errors returned by the services. Callers match them with errors.Is; the
// HTTP layer maps each one onto a status code.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrLinkNotFound  = errors.New("link not found")
	ErrForbidden     = errors.New("forbidden")
	ErrSelfReference = errors.New("self reference not allowed")

	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports invalid input, keyed by JSON field name
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err wraps a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

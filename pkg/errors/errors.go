// Package errors defines error types and utilities shared by the storefront CRUD core
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by document store implementations
var (
	// ErrNotFound is returned when a container has no document for an id
	ErrNotFound = errors.New("document not found")

	// ErrConflict is returned when a create collides with an existing document
	ErrConflict = errors.New("document already exists")
)

// ValidationError reports a payload that failed the required-field checks for
// an entity kind. Fields carries the full required set so the client message
// can name everything the entity needs, not just what was missing.
type ValidationError struct {
	Kind    string
	Fields  []string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s", e.Kind, e.Message)
}

// NewValidationError builds the standard missing-required-fields error.
// label overrides the joined field list in the client message when the
// required set needs an annotation (e.g. "items (must be a non-empty array)").
func NewValidationError(kind string, fields []string, label string) *ValidationError {
	if label == "" {
		label = strings.Join(fields, ", ")
	}
	return &ValidationError{
		Kind:    kind,
		Fields:  fields,
		Message: "Missing required fields: " + label,
	}
}

// ConflictError reports a create that collided on a unique field. Existing
// carries the document already stored so the 409 body can include it.
type ConflictError struct {
	Kind     string
	Field    string
	Existing map[string]any
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Kind)
}

// Is reports ErrConflict so callers can match with errors.Is
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// StoreError wraps a failure from the document store collaborator with the
// operation and container it came from.
type StoreError struct {
	Op        string
	Container string
	Err       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Container, e.Err)
}

// Unwrap returns the underlying error
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError
func NewStoreError(op, container string, err error) *StoreError {
	return &StoreError{Op: op, Container: container, Err: err}
}

// IsNotFound checks if an error indicates a document was not found
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error indicates a uniqueness or existence conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// Package errors provides centralized error definitions and error handling
// utilities for the planpack codebase. It defines sentinel errors for the
// document lifecycle, a typed DocumentError with context wrapping, and
// convenience re-exports so callers can import only this package for all
// error handling.
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Document lifecycle sentinel errors
var (
	// ErrDocumentMissing indicates the tasks.json document does not exist.
	// The CLI maps this to exit status 2.
	ErrDocumentMissing = New("tasks.json not found")

	// ErrDocumentMalformed indicates the document could not be parsed or
	// shaped, so validation halted after a single fatal diagnostic.
	ErrDocumentMalformed = New("tasks.json is malformed")

	// ErrPackInvalid indicates validation completed and found defects.
	ErrPackInvalid = New("planning pack validation failed")

	// ErrFeatureDirMissing indicates the feature directory argument does
	// not resolve to a directory.
	ErrFeatureDirMissing = New("feature directory not found")

	// ErrGraphCycle indicates the task dependency graph has a cycle and no
	// topological order exists.
	ErrGraphCycle = New("dependency cycle detected")
)

// DocumentError wraps a failure tied to a specific Planning Pack document.
//
// Example:
//
//	err := errors.NewDocumentError("cannot read document", cause).WithPath(path)
type DocumentError struct {
	// Path is the document or directory the error refers to.
	Path string

	message string
	cause   error
}

// NewDocumentError creates a new DocumentError.
func NewDocumentError(message string, cause error) *DocumentError {
	return &DocumentError{message: message, cause: cause}
}

// WithPath attaches the document path to the error context.
func (e *DocumentError) WithPath(path string) *DocumentError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *DocumentError) Error() string {
	prefix := "document error"
	if e.Path != "" {
		prefix = fmt.Sprintf("document error [path=%s]", e.Path)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Unwrap returns the underlying error.
func (e *DocumentError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *DocumentError) Is(target error) bool {
	if _, ok := target.(*DocumentError); ok {
		return true
	}
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrReadOnly          = errors.New("persister is in read-only mode")
	ErrNotFound          = errors.New("record not found")
	ErrTransformFailed   = errors.New("transform failed")
	ErrPersistFailed     = errors.New("persist failed")
	ErrInvalidID         = errors.New("record id must be positive")
	ErrInvalidCoordinate = errors.New("coordinate out of range")
)

// TransformError is returned by Store.Update when the caller-supplied transform
// fails. The store value is left untouched.
type TransformError struct {
	Store string
	Cause error
}

func (e *TransformError) Error() string {
	if e.Store == "" {
		return fmt.Sprintf("%v: %v", ErrTransformFailed, e.Cause)
	}
	return fmt.Sprintf("store %s: %v: %v", e.Store, ErrTransformFailed, e.Cause)
}

// Unwrap exposes the transform's own error.
func (e *TransformError) Unwrap() error {
	return e.Cause
}

// Is reports ErrTransformFailed as a match so callers can test the error kind
// without knowing the cause.
func (e *TransformError) Is(target error) bool {
	return target == ErrTransformFailed
}

package apperr

import (
	"fmt"
)

// ValidationError reports a configuration that cannot be benchmarked.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// ResourceError reports a buffer that could not be allocated.
// Bytes is the size that was requested.
type ResourceError struct {
	Resource string
	Bytes    int64
	Limit    int64
}

func (e *ResourceError) Error() string {
	if e.Bytes < 0 {
		return fmt.Sprintf("cannot allocate %s: size overflows", e.Resource)
	}
	if e.Limit > 0 {
		return fmt.Sprintf("cannot allocate %s: %d bytes requested, limit is %d bytes", e.Resource, e.Bytes, e.Limit)
	}
	return fmt.Sprintf("cannot allocate %s: %d bytes requested", e.Resource, e.Bytes)
}

func NewResource(resource string, bytes, limit int64) *ResourceError {
	return &ResourceError{Resource: resource, Bytes: bytes, Limit: limit}
}

// BackendError wraps a failure raised by the compute backend while running a kernel.
type BackendError struct {
	Backend string
	Op      string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend failed in %s: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func NewBackend(backend, op string, err error) *BackendError {
	return &BackendError{Backend: backend, Op: op, Err: err}
}

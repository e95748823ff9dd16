package orchestrator

import (
	"errors"
	"fmt"
)

// ErrorClass classifies a reconfiguration error for callers that decide
// whether to surface, retry, or give up.
type ErrorClass string

const (
	// ErrorClassConflict indicates a structural conflict with the current
	// topology, e.g. a duplicate name or a host still in use.
	ErrorClassConflict ErrorClass = "conflict"

	// ErrorClassPermanent indicates a non-recoverable error such as an
	// invalid virtual host specification.
	ErrorClassPermanent ErrorClass = "permanent"

	// ErrorClassTransient indicates a temporary failure, e.g. the audit
	// store being briefly unavailable.
	ErrorClassTransient ErrorClass = "transient"
)

// ReconfigError is a classified error with virtual host context.
type ReconfigError struct {
	// Class is the error classification.
	Class ErrorClass `json:"class"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Code is an optional error code for programmatic handling.
	Code string `json:"code,omitempty"`

	// VirtualHost is the virtual host name involved, if any.
	VirtualHost string `json:"virtual_host,omitempty"`

	// Operation is the operation being performed when the error occurred.
	Operation string `json:"operation,omitempty"`

	// Err is the underlying error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *ReconfigError) Error() string {
	if e.VirtualHost != "" {
		return fmt.Sprintf("[%s] %s (vhost=%s, operation=%s): %s",
			e.Class, e.Message, e.VirtualHost, e.Operation, e.unwrapMessage())
	}
	return fmt.Sprintf("[%s] %s: %s", e.Class, e.Message, e.unwrapMessage())
}

// Unwrap returns the underlying error for error chain inspection.
func (e *ReconfigError) Unwrap() error {
	return e.Err
}

func (e *ReconfigError) unwrapMessage() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// Is implements error equality checking for errors.Is.
func (e *ReconfigError) Is(target error) bool {
	t, ok := target.(*ReconfigError)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// NewConflictError creates a new conflict error.
func NewConflictError(message string, err error) *ReconfigError {
	return &ReconfigError{Class: ErrorClassConflict, Message: message, Err: err}
}

// NewPermanentError creates a new permanent error.
func NewPermanentError(message string, err error) *ReconfigError {
	return &ReconfigError{Class: ErrorClassPermanent, Message: message, Err: err}
}

// NewTransientError creates a new transient error.
func NewTransientError(message string, err error) *ReconfigError {
	return &ReconfigError{Class: ErrorClassTransient, Message: message, Err: err}
}

// WithVirtualHost adds virtual host context to the error.
func (e *ReconfigError) WithVirtualHost(name string) *ReconfigError {
	e.VirtualHost = name
	return e
}

// WithOperation adds operation context to the error.
func (e *ReconfigError) WithOperation(operation string) *ReconfigError {
	e.Operation = operation
	return e
}

// WithCode adds an error code to the error.
func (e *ReconfigError) WithCode(code string) *ReconfigError {
	e.Code = code
	return e
}

// IsConflict returns true if the error is classified as a conflict.
func IsConflict(err error) bool {
	var e *ReconfigError
	if errors.As(err, &e) {
		return e.Class == ErrorClassConflict
	}
	return false
}

// IsPermanent returns true if the error is classified as permanent.
func IsPermanent(err error) bool {
	var e *ReconfigError
	if errors.As(err, &e) {
		return e.Class == ErrorClassPermanent
	}
	return false
}

// Common error codes.
const (
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeInUse      = "IN_USE"
	ErrCodeProtected  = "PROTECTED"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

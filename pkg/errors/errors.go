// Package errors provides structured error types for the multigraph engine.
//
// This package defines error codes and types that enable:
//   - One error discipline across the graph core, the stores and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or invariant validation failures
//   - NOT_*: Missing elements, properties or graphs
//   - NO_*: Unavailable checkpoint operations
//   - INTERNAL_*: Unexpected internal errors
//
// Invariant violations (freeing an unused id, deleting a non-member
// element, permuting an incidence list with a foreign edge) are returned
// as errors and leave the graph unchanged. Programming errors that would
// corrupt undo state (a replay on a diverged graph, a runaway notification
// cycle) panic with an [*Error] carrying [ErrCodeRecorderInconsistent] or
// [ErrCodeNotifyCycle].
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotElement, "node %d is not in graph %d", n.ID, g.ID())
//	if errors.Is(err, errors.ErrCodeNotElement) {
//	    // Handle membership error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode snapshot %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidID     Code = "INVALID_ID"
	ErrCodeInvalidOrder  Code = "INVALID_ORDER"

	// Graph membership errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeNotElement  Code = "NOT_ELEMENT"
	ErrCodeNotSubgraph Code = "NOT_SUBGRAPH"

	// Property registry errors
	ErrCodePropertyExists Code = "PROPERTY_EXISTS"
	ErrCodePropertyType   Code = "PROPERTY_TYPE"

	// Checkpoint errors
	ErrCodeNoCheckpoint Code = "NO_CHECKPOINT"
	ErrCodeNoRedo       Code = "NO_REDO"

	// Resource exhaustion
	ErrCodeIDExhausted Code = "ID_EXHAUSTED"

	// Programming errors, raised by panic
	ErrCodeRecorderInconsistent Code = "RECORDER_INCONSISTENT"
	ErrCodeNotifyCycle          Code = "NOTIFY_CYCLE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Recover converts a panic value raised with an *Error back into an
// error. Other panic values are re-raised.
//
//	defer func() { err = errors.Recover(recover(), err) }()
func Recover(r any, err error) error {
	if r == nil {
		return err
	}
	if e, ok := r.(*Error); ok {
		return e
	}
	panic(r)
}

// Package errors provides structured error types for the Text2BPMN application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes distinguish the fatal merge failures (MISSING_REFERENCE, EMPTY_LANE,
// INCONSISTENT_ORDER) from input validation, layout, and infrastructure
// failures. Fatal merge errors always abort the whole assembly; no partial
// diagram is ever returned.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyLane, "lane %s has no shapes after cleanup", id)
//	if errors.Is(err, errors.ErrCodeEmptyLane) {
//	    // Handle empty lane
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLayoutFailed, origErr, "layout lane %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Fatal merge errors - abort the assembly with no partial output
	ErrCodeMissingReference  Code = "MISSING_REFERENCE"
	ErrCodeEmptyLane         Code = "EMPTY_LANE"
	ErrCodeInconsistentOrder Code = "INCONSISTENT_ORDER"

	// Input validation errors
	ErrCodeInvalidModel  Code = "INVALID_MODEL"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"

	// Collaborator errors
	ErrCodeLayoutFailed    Code = "LAYOUT_FAILED"
	ErrCodeSerializeFailed Code = "SERIALIZE_FAILED"

	// Resource errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeStoreFailed Code = "STORE_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// IsFatal reports whether err carries one of the merge-aborting codes.
// Fatal errors must propagate to the caller unchanged; the engine never
// recovers from them in a way that alters the diagram's logical structure.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeMissingReference, ErrCodeEmptyLane, ErrCodeInconsistentOrder:
		return true
	}
	return false
}

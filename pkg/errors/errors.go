// Package errors provides structured error types for spanlane.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the core packages, CLI and server
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Model construction and input validation failures
//   - *_NOT_FOUND: Resource not found
//   - ROOT_SPAN, MALFORMED_SPAN, EMPTY_TRACE: Simulation and layout invariant violations
//   - INTERNAL_*: Unexpected internal errors
//
// Core packages (model, sim, layout) return these errors unmodified so callers
// can surface the actual modeling mistake.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDuration, "duration must be non-negative, got %v", d)
//	if errors.Is(err, errors.ErrCodeInvalidDuration) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidModel, origErr, "parse %s", path)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidDuration Code = "INVALID_DURATION"
	ErrCodeInvalidService  Code = "INVALID_SERVICE"
	ErrCodeInvalidModel    Code = "INVALID_MODEL"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle    Code = "INVALID_STYLE"
	ErrCodeInvalidTimeMode Code = "INVALID_TIME_MODE"
	ErrCodeInvalidVizType  Code = "INVALID_VIZ_TYPE"
	ErrCodeInvalidScale    Code = "INVALID_SCALE"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Simulation and layout invariant violations
	ErrCodeRootSpan      Code = "ROOT_SPAN"
	ErrCodeMalformedSpan Code = "MALFORMED_SPAN"
	ErrCodeEmptyTrace    Code = "EMPTY_TRACE"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeModelNotFound Code = "MODEL_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Network errors (cache backends only)
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

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

// IsInvalid reports whether err carries one of the INVALID_* codes.
// The HTTP server uses this to map caller mistakes to 400 responses.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidDuration, ErrCodeInvalidService,
		ErrCodeInvalidModel, ErrCodeInvalidFormat, ErrCodeInvalidStyle,
		ErrCodeInvalidTimeMode, ErrCodeInvalidVizType, ErrCodeInvalidScale,
		ErrCodeInvalidPath:
		return true
	}
	return false
}

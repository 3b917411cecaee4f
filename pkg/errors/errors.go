// Package errors provides structured error types for the icon build.
//
// The build follows a fail-fast policy: every error except
// [ErrCodePlatformUnavailable] aborts the run. Codes let the CLI and tests
// tell the failure classes apart without string matching:
//   - MISSING_DEPENDENCY: a required external tool is not installed
//   - TOOL_INVOCATION: an external tool exited non-zero
//   - PLATFORM_UNAVAILABLE: an optional, host-specific packer is absent
//   - INVALID_*: malformed input documents, manifests or arguments
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingDependency, "svgo not found in PATH")
//	if errors.Is(err, errors.ErrCodeMissingDependency) {
//	    // report and exit
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeToolInvocation, runErr, "rsvg-convert %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Environment errors
	ErrCodeMissingDependency   Code = "MISSING_DEPENDENCY"
	ErrCodeToolInvocation      Code = "TOOL_INVOCATION"
	ErrCodePlatformUnavailable Code = "PLATFORM_UNAVAILABLE"

	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// Fatal reports whether err should abort the build.
// Only PLATFORM_UNAVAILABLE is tolerated.
func Fatal(err error) bool {
	return err != nil && !Is(err, ErrCodePlatformUnavailable)
}

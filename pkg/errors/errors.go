// Package errors provides structured error types for autoremove.
//
// This package defines error codes and types that enable:
//   - Consistent reporting of skipped packages and requirements
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_INSTALLED / MALFORMED_REQUIREMENT: Catalog lookups that degrade to "skip"
//   - UNINSTALL_FAILED: The package manager rejected a removal
//   - INTERNAL_*: Unexpected internal errors
//
// None of the graph engine's error conditions are fatal. NotInstalled and
// MalformedRequirement are reported and the affected edge or seed is skipped.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotInstalled, "%s is not installed", name)
//	if errors.Is(err, errors.ErrCodeNotInstalled) {
//	    // skip it
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeUninstallFailed, origErr, "pip uninstall")
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
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Catalog errors
	ErrCodeNotInstalled         Code = "NOT_INSTALLED"
	ErrCodeMalformedRequirement Code = "MALFORMED_REQUIREMENT"
	ErrCodeFileNotFound         Code = "FILE_NOT_FOUND"

	// Executor errors
	ErrCodeUninstallFailed Code = "UNINSTALL_FAILED"

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

// NotInstalled reports that no installed package carries the given name.
func NotInstalled(name string) *Error {
	return New(ErrCodeNotInstalled, "installed dependency %q not found", name)
}

// MalformedRequirement reports a requirement string that could not be split
// into name, extras and condition.
func MalformedRequirement(raw string, cause error) *Error {
	if cause != nil {
		return Wrap(ErrCodeMalformedRequirement, cause, "invalid requirement %q", raw)
	}
	return New(ErrCodeMalformedRequirement, "invalid requirement %q", raw)
}

// IsSkippable reports whether err describes a catalog entry that callers are
// expected to skip rather than fail on.
func IsSkippable(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotInstalled, ErrCodeMalformedRequirement:
		return true
	}
	return false
}

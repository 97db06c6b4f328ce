// Package errors provides structured error types for conceptree.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes are grouped by the error taxonomy of the engine:
//   - Structural errors (DUPLICATE_CONCEPT, DANGLING_EDGE, INVALID_EDGE,
//     CYCLE_DETECTED, TOO_LARGE) abort the current build or resolution pass
//   - Input errors (INVALID_INPUT, INVALID_CONFIG) come from host surfaces
//   - NOT_FOUND and INTERNAL_ERROR cover storage and unexpected failures
//
// Layout anomalies and unknown expand/collapse paths are not errors and never
// surface here.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateConcept, "concept %s listed twice", id)
//	if errors.Is(err, errors.ErrCodeDuplicateConcept) {
//	    // Handle malformed input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDanglingEdge, dagErr, "edge %s->%s", from, to)
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
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Structural errors in concept/edge data
	ErrCodeDuplicateConcept Code = "DUPLICATE_CONCEPT"
	ErrCodeDanglingEdge     Code = "DANGLING_EDGE"
	ErrCodeInvalidEdge      Code = "INVALID_EDGE"
	ErrCodeCycleDetected    Code = "CYCLE_DETECTED"
	ErrCodeTooLarge         Code = "TOO_LARGE"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

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

// IsStructural reports whether err is one of the structural input errors
// that abort a build or resolution pass.
func IsStructural(err error) bool {
	switch GetCode(err) {
	case ErrCodeDuplicateConcept, ErrCodeDanglingEdge, ErrCodeInvalidEdge,
		ErrCodeCycleDetected, ErrCodeTooLarge:
		return true
	}
	return false
}

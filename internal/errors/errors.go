// Package errors defines the stable error codes shared by the index core.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ParseError indicates a single file could not be structurally parsed
	ParseError ErrorCode = "PARSE_ERROR"
	// IOError indicates a file could not be read
	IOError ErrorCode = "IO_ERROR"
	// StorageError indicates a snapshot write or read failed
	StorageError ErrorCode = "STORAGE_ERROR"
	// InvalidQuery indicates malformed query input
	InvalidQuery ErrorCode = "INVALID_QUERY"
	// NotBuilt indicates a query was issued before any successful build or restore
	NotBuilt ErrorCode = "NOT_BUILT"
	// BuildInProgress indicates a concurrent build was attempted
	BuildInProgress ErrorCode = "BUILD_IN_PROGRESS"
	// SchemaMismatch indicates a persisted snapshot has an incompatible schema version
	SchemaMismatch ErrorCode = "SCHEMA_MISMATCH"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// IndexError represents an index error with a stable code, message, and cause
type IndexError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new IndexError
func New(code ErrorCode, message string) *IndexError {
	return &IndexError{Code: code, Message: message}
}

// Wrap creates a new IndexError wrapping a cause
func Wrap(code ErrorCode, message string, cause error) *IndexError {
	return &IndexError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *IndexError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *IndexError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *IndexError) WithDetails(details interface{}) *IndexError {
	e.Details = details
	return e
}

// CodeOf extracts the ErrorCode from err, or InternalError if err carries none
func CodeOf(err error) ErrorCode {
	var ie *IndexError
	if errors.As(err, &ie) {
		return ie.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given code
func HasCode(err error, code ErrorCode) bool {
	var ie *IndexError
	return errors.As(err, &ie) && ie.Code == code
}

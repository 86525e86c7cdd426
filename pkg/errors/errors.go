package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Setup errors: reported once, run terminates before any analysis
	ErrNoInputFound     ErrorCode = "NO_INPUT_FOUND"
	ErrAllInputExcluded ErrorCode = "ALL_INPUT_EXCLUDED"
	ErrBaselineConfig   ErrorCode = "BASELINE_CONFIG"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Filesystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
)

// CheckError represents a structured error with code and details
type CheckError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CheckError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CheckError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CheckError) Is(target error) bool {
	var targetErr *CheckError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CheckError with the given code and message
func New(code ErrorCode, message string) *CheckError {
	return &CheckError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CheckError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CheckError {
	return &CheckError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CheckError
func Wrap(err error, code ErrorCode, message string) *CheckError {
	if err == nil {
		return nil
	}
	return &CheckError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CheckError {
	if err == nil {
		return nil
	}
	return &CheckError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CheckError) WithDetail(key string, value interface{}) *CheckError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var checkErr *CheckError
	if errors.As(err, &checkErr) {
		return checkErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CheckError
func GetErrorCode(err error) ErrorCode {
	var checkErr *CheckError
	if errors.As(err, &checkErr) {
		return checkErr.Code
	}
	return ErrUnknown
}

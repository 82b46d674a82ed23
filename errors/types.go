package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Record store and repository errors
	ErrCodeCorruptData      ErrorCode = "CORRUPT_DATA"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	ErrCodeRevisionConflict ErrorCode = "REVISION_CONFLICT"
	ErrCodeStorage          ErrorCode = "STORAGE"

	// Validation errors
	ErrCodeNotADirectory ErrorCode = "NOT_A_DIRECTORY"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"

	// Command execution errors
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	ErrCodeCommandFailed   ErrorCode = "COMMAND_FAILED"

	// General errors
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// CompanionError represents a structured error with context
type CompanionError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *CompanionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CompanionError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *CompanionError) WithDetail(key string, value interface{}) *CompanionError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *CompanionError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new CompanionError
func New(code ErrorCode, message string) *CompanionError {
	return &CompanionError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a CompanionError
func Wrap(err error, code ErrorCode, message string) *CompanionError {
	return &CompanionError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// As returns the outermost CompanionError in err's chain.
func As(err error) (*CompanionError, bool) {
	var companionErr *CompanionError
	if stderrors.As(err, &companionErr) {
		return companionErr, true
	}
	return nil, false
}

// Is checks if an error is a specific CompanionError code.
// Errors wrapped with fmt.Errorf("%w") are unwrapped.
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	companionErr, ok := As(err)
	if !ok {
		return ""
	}

	return companionErr.Code
}

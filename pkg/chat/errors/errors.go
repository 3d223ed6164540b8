package errors

import (
	"errors"
	"fmt"
)

// AppError represents an application-level error with a code and optional cause
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Newf creates a new AppError with a formatted message and no cause
func Newf(code, format string, args ...any) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// CodeOf returns the code of the first AppError in err's chain, or an
// empty string when the chain carries none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Error codes
const (
	ErrCodeInvalidIdentity   = "INVALID_IDENTITY"
	ErrCodeEmptyMessage      = "EMPTY_MESSAGE"
	ErrCodeTurnInFlight      = "TURN_IN_FLIGHT"
	ErrCodeSessionActive     = "SESSION_ACTIVE"
	ErrCodeNoService         = "NO_SERVICE_SELECTED"
	ErrCodeServiceNotFound   = "SERVICE_NOT_FOUND"
	ErrCodeServiceRegistered = "SERVICE_ALREADY_REGISTERED"
	ErrCodeRequestBuild      = "REQUEST_BUILD_FAILED"
	ErrCodeRequestFailed     = "REQUEST_FAILED"
	ErrCodeServiceUnavail    = "SERVICE_UNAVAILABLE"
	ErrCodeResponseParse     = "RESPONSE_PARSE_FAILED"
	ErrCodeConfigInvalid     = "CONFIG_INVALID"
	ErrCodeStoreFailed       = "STORE_FAILED"
)

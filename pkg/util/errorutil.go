package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced by the client core.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeRefreshFailed   = "REFRESH_FAILED"
	CodeForbidden       = "FORBIDDEN"
	CodeNetworkError    = "NETWORK_ERROR"
	CodeValidation      = "VALIDATION_FAILED"
	CodeAPIError        = "API_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewUnauthenticated marks a request that carried no valid credential.
func NewUnauthenticated(message string) error {
	return NewDomainError(CodeUnauthenticated, message, http.StatusUnauthorized, nil)
}

// NewRefreshFailed wraps a rejected credential refresh.
func NewRefreshFailed(err error) error {
	return &DomainError{
		Code:       CodeRefreshFailed,
		Message:    "credential refresh rejected",
		HTTPStatus: http.StatusUnauthorized,
		Err:        err,
	}
}

// NewForbidden marks a role or plan mismatch, not a credential problem.
func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

// NewNetworkError wraps a transport-level failure.
func NewNetworkError(err error) error {
	return &DomainError{
		Code:    CodeNetworkError,
		Message: "network failure",
		Err:     err,
	}
}

// NewValidationError marks a malformed request payload.
func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

// NewAPIError carries a non-auth backend rejection through to the caller.
func NewAPIError(status int, message string, details map[string]any) error {
	if message == "" {
		message = http.StatusText(status)
	}
	return NewDomainError(CodeAPIError, message, status, details)
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:    CodeNetworkError,
		Message: "network failure",
		Err:     err,
	}
}

// HasCode reports whether err is a DomainError carrying the given code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == code
}

// IsUnauthenticated reports an UNAUTHENTICATED error.
func IsUnauthenticated(err error) bool { return HasCode(err, CodeUnauthenticated) }

// IsRefreshFailed reports a REFRESH_FAILED error.
func IsRefreshFailed(err error) bool { return HasCode(err, CodeRefreshFailed) }

// IsNetworkError reports a NETWORK_ERROR error.
func IsNetworkError(err error) bool { return HasCode(err, CodeNetworkError) }

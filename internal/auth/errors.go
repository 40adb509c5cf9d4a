package auth

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated indicates an operation that requires a session was
// attempted without one.
var ErrNotAuthenticated = errors.New("not authenticated")

// Machine-readable codes carried by AuthenticationError.
const (
	// CodeDeviceCodeFailed means the device code request was rejected.
	CodeDeviceCodeFailed = "device_code_failed"
	// CodeLoginTimeout means the user did not approve within the poll budget.
	CodeLoginTimeout = "login_timeout"
	// CodeAccessDenied means the user explicitly denied the authorization.
	CodeAccessDenied = "access_denied"
	// CodeTokenError means the token endpoint returned a terminal error.
	CodeTokenError = "token_error"
	// CodeVerifyFailed means the identity verification call failed.
	CodeVerifyFailed = "verify_failed"
	// CodeMalformedResponse means the authorization server sent an
	// unusable response body.
	CodeMalformedResponse = "malformed_response"
)

// AuthenticationError is a terminal failure of the device-flow login. The
// Message is user-actionable; Code allows callers to branch on the cause.
type AuthenticationError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain inspection.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// NewAuthenticationError creates an AuthenticationError.
func NewAuthenticationError(code, message string, err error) *AuthenticationError {
	return &AuthenticationError{Code: code, Message: message, Err: err}
}

// IsAccessDenied reports whether err is a user denial of the login.
func IsAccessDenied(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr) && authErr.Code == CodeAccessDenied
}

// IsLoginTimeout reports whether err is a login poll timeout.
func IsLoginTimeout(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr) && authErr.Code == CodeLoginTimeout
}

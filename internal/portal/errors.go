package portal

import (
	"errors"
	"fmt"
)

// APIError is a structured failure returned by the portal API. Ordinary
// 4xx/5xx responses are mapped into this type and returned as values, never
// panics, so the tool layer can render them without crashing the process.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Code is the portal's machine-readable error code, when present.
	Code string
	// Message is the human-readable description. Falls back to the HTTP
	// status text when the response body is unparsable.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("portal API error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("portal API error %d: %s", e.Status, e.Message)
}

// AsAPIError extracts an *APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

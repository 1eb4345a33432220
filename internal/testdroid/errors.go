package testdroid

import (
	"errors"
	"fmt"
)

// APIError is returned whenever the farm answers with an unexpected status.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("testdroid: %s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("testdroid: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// errorBody is the JSON document the farm sends along with 4xx/5xx statuses.
type errorBody struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// StatusCode extracts the remote status code from anywhere in err's chain.
func StatusCode(err error) (int, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	return 0, false
}

// IsConflict reports whether err is a 409 answer from the farm.
func IsConflict(err error) bool {
	code, ok := StatusCode(err)
	return ok && code == 409
}

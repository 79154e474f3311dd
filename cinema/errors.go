package cinema

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid cinema client configuration")
	// ErrInvalidPayload indicates a request payload failed validation
	ErrInvalidPayload = errors.New("invalid request payload")
	// ErrForeignPage indicates a pagination link pointing at another host
	ErrForeignPage = errors.New("pagination link points outside the API host")
)

// APIError represents a non-2xx answer from the backend
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("cinema API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

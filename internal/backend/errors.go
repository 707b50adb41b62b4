package backend

import (
	"errors"
	"fmt"
)

// Sentinel errors for backend call outcomes.
var (
	// ErrUnauthorized is returned on 401/403 responses. Handlers react
	// by clearing the stored token and signalling a login redirect.
	ErrUnauthorized = errors.New("backend rejected credentials")

	// ErrBackendUnavailable covers 5xx responses and transport
	// failures. Users see a generic message either way.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// APIError is a backend validation rejection (4xx) carrying the
// backend-provided message when one was present in the payload.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (status %d)", e.Status)
}

// UserMessage returns the text surfaced in the admin notification.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return "Request rejected by the server"
}

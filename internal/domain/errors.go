package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrItemNotFound indicates the requested title, actor or record does not exist
	ErrItemNotFound = errors.New("item not found")

	// ErrServerOffline indicates the catalog API is unreachable
	ErrServerOffline = errors.New("catalog server is unreachable")

	// ErrAuthFailed indicates the credentials or the bearer token were rejected
	ErrAuthFailed = errors.New("authentication rejected")

	// ErrValidation indicates the server refused a mutation with a structured message
	ErrValidation = errors.New("request rejected by server")

	// ErrUnexpectedStatus indicates any other non-2xx response
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// APIError carries the server-provided message for a classified failure.
// errors.Is(err, ErrAuthFailed) etc. work through Unwrap.
type APIError struct {
	Kind    error  // One of the sentinels above
	Status  int    // HTTP status, 0 for transport failures
	Message string // Server-provided message, surfaced verbatim
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != 0 {
		return fmt.Sprintf("%v (status %d)", e.Kind, e.Status)
	}
	return e.Kind.Error()
}

func (e *APIError) Unwrap() error { return e.Kind }

// Message extracts the user-facing message from err.
// Server messages are returned verbatim; other errors use their Error text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}

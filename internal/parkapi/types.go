// Package parkapi provides a client for the state park travel API.
// It serves the park list and per-park detail records used to build the guide.
package parkapi

import (
	"errors"
	"fmt"
)

// ErrEmptyCatalog is returned when the list endpoint answers with no parks
var ErrEmptyCatalog = errors.New("park catalog is empty")

// APIError represents a non-200 answer from the park API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("park API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// FetchError wraps a transport, decode or validation failure for one endpoint.
type FetchError struct {
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("park API request %s failed: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

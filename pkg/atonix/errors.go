package atonix

import (
	"errors"
	"fmt"
)

// APIError is returned when the server answers with a status code >= 400.
// Body holds the raw response text; it is not parsed.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "atonix api error: " + e.Body
}

// TransportError is returned when no response was received at all
// (dial failure, DNS, timeout, cancellation).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("atonix transport: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AsAPIError extracts an *APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAPIError reports whether err carries a non-success server response.
func IsAPIError(err error) bool {
	_, ok := AsAPIError(err)
	return ok
}

// IsTransportError reports whether err is a network-level failure.
func IsTransportError(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

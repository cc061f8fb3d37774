package llm

import (
	"errors"
	"fmt"
)

// Sentinel errors for requests that are rejected before any network
// call is attempted, and for responses that parse but lack the
// expected shape.
var (
	ErrInvalidAPIKey = errors.New("openai api key is missing or not configured")
	ErrEmptyPrompt   = errors.New("generation request has no prompt")
	ErrNoChoices     = errors.New("response contains no choices")
	ErrNoContent     = errors.New("response message has no content")
)

// TransportError wraps a network-level failure (connection error,
// timeout) on the way to or from the API.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError wraps a failure to decode the response body as JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the provider, with the error
// message decoded from the body when available.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error (%d)", e.StatusCode)
}

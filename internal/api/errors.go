package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is the one structured failure the client produces. Transport
// errors, non-2xx responses and undecodable bodies all normalize into it.
type Error struct {
	// Message is human-readable, taken from the response body when the
	// server provided one.
	Message string

	// Status is the HTTP status code, or 0 when no response was obtained
	// at all (DNS failure, connection refused, timeout).
	Status int

	// Endpoint is the path the request was issued against.
	Endpoint string

	// cause is the underlying error, when the failure originated client-side.
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("api %s: %s (status %d)", e.Endpoint, e.Message, e.Status)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsStatus reports whether err is an *Error with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsNetworkError reports whether err is an *Error for which no response
// was obtained.
func IsNetworkError(err error) bool {
	return IsStatus(err, 0)
}

// errorBody is the conventional shape of backend error responses. FastAPI
// handlers send "detail"; older routes send "message". Neither is trusted
// to be present.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// errorMessage extracts a human-readable message from a response body,
// falling back to the given status text when the body is empty, not JSON,
// or carries neither conventional field.
func errorMessage(body []byte, fallback string) string {
	if len(body) == 0 {
		return fallback
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return fallback
	}
	if eb.Detail != "" {
		return eb.Detail
	}
	if eb.Message != "" {
		return eb.Message
	}
	return fallback
}

// statusFallback is the message of last resort for a response whose body
// carried nothing usable. http.StatusText is empty for non-standard codes,
// and an error must never surface with an empty message.
func statusFallback(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

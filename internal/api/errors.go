package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// RequestFailedError is the only error kind surfaced by the gateway. It covers transport
// failures (Status == 0), non-2xx responses, and undecodable 2xx bodies.
type RequestFailedError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Cause   error
}

func (e *RequestFailedError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Method, e.Path)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s %s failed with status %d", e.Method, e.Path, e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *RequestFailedError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status carried by a RequestFailedError anywhere in err's chain,
// or 0 when there is none or the failure happened before a response arrived.
func StatusCode(err error) int {
	var reqErr *RequestFailedError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}

// Message returns the human-readable message of a RequestFailedError in err's chain,
// falling back to err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestFailedError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	return err.Error()
}

// errorMessage extracts the "error" field of a failed response body, falling back to a
// generic status message when the body is not JSON or carries no error text.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return fmt.Sprintf("HTTP error! status: %d", status)
	}
	return payload.Error
}

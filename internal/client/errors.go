// ABOUTME: Error taxonomy for API calls
// ABOUTME: Separates auth failures, rejected requests, server faults and connectivity problems

package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches 401 and 403 responses. The session is no longer usable.
	ErrUnauthorized = errors.New("not authorized")
	// ErrRejected matches any other 4xx response
	ErrRejected = errors.New("request rejected")
	// ErrServer matches 5xx responses
	ErrServer = errors.New("server error")
	// ErrUnreachable matches transport failures
	ErrUnreachable = errors.New("cannot reach server")
)

// APIError is a non-2xx response from the API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

// Is lets callers classify the error with errors.Is against the sentinels above
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrRejected:
		return e.Status >= 400 && e.Status < 500 &&
			e.Status != http.StatusUnauthorized && e.Status != http.StatusForbidden
	case ErrServer:
		return e.Status >= 500
	}
	return false
}

// NetworkError wraps a failure to talk to the server at all
type NetworkError struct {
	BaseURL string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cannot connect to server at %s: %v", e.BaseURL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrUnreachable }

// Message returns the server supplied message carried by err, or fallback
// when err has none
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Describe renders err for display: server messages verbatim, connectivity
// problems as a generic hint, anything else with fallback
func Describe(err error, fallback string) string {
	switch {
	case errors.Is(err, ErrUnreachable):
		return "Cannot reach the server. Check your connection and try again."
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please log in again."
	}
	return Message(err, fallback)
}

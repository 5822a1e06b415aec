package client

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrEmptyToken   = errors.New("server returned no token")
)

// Notification texts shown by the response interceptor.
const (
	MsgNetworkError   = "Network error. Please check your connection and try again."
	MsgSessionExpired = "Authorization failed. Your session has expired. Redirecting to login..."
	MsgBadCredentials = "Authorization failed. Please check your credentials."
)

// APIError is a failure reported by the backend, either as a non-2xx status
// or as an envelope with error set.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// ValidationError is a 400 response with per-field messages.
type ValidationError struct {
	Title  string
	Fields map[string][]string
}

// FirstMessage picks the first message of the alphabetically first field.
func (e *ValidationError) FirstMessage() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, m := range e.Fields[k] {
			if m != "" {
				return m
			}
		}
	}
	if e.Title != "" {
		return e.Title
	}
	return "validation failed"
}

func (e *ValidationError) Error() string {
	return e.FirstMessage()
}

// Message returns the text to show for err, or fallback when err carries no
// backend message.
func Message(err error, fallback string) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.FirstMessage()
	}
	var aerr *APIError
	if errors.As(err, &aerr) && aerr.Message != "" {
		return aerr.Message
	}
	return fallback
}

// Notified reports whether the response interceptor already told the user
// about err.
func Notified(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrUnauthorized)
}

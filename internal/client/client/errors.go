package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrServer        = errors.New("server error")
	ErrRequestFailed = errors.New("request failed")

	// Transport failures; all surface with status 0.
	ErrTimeout    = errors.New("request timed out")
	ErrOffline    = errors.New("network unreachable")
	ErrConnection = errors.New("connection error")

	ErrInvalidNoteID = errors.New("invalid note id")
	ErrEmptyResponse = errors.New("response carried no data")
)

// User-facing fallbacks used when the backend supplies no message.
const (
	msgSessionExpired = "Session expired. Please log in again."
	msgAccessDenied   = "Access denied."
	msgServerError    = "Server error. Please try again later."
	msgRequestFailed  = "Request failed"
	msgTimeout        = "Request timed out. Please check your connection."
	msgOffline        = "No internet connection. Please check your network."
	msgConnection     = "Connection error. Please try again."
)

// APIError is returned by every HTTPClient call that fails.
//
// Status is the HTTP status code, or 0 when no response was received
// (timeout, offline, connection reset). Message is safe to show to the user.
// Data holds the decoded JSON error body, if any.
type APIError struct {
	Status  int
	Message string
	Data    map[string]any
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// StatusOf returns the HTTP status carried by err, or -1 when err is not an
// *APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

// backendMessage picks the "error" field of a JSON error body.
func backendMessage(data map[string]any) string {
	if data == nil {
		return ""
	}
	if s, ok := data["error"].(string); ok {
		return s
	}
	return ""
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// classifyStatus maps a non-2xx response onto the error taxonomy.
// CSRF failures are classified as ErrForbidden; the retry decision is made
// before classification.
func classifyStatus(status int, data map[string]any) *APIError {
	msg := backendMessage(data)
	e := &APIError{Status: status, Data: data}

	switch {
	case status == 401:
		e.Message, e.Err = orDefault(msg, msgSessionExpired), ErrUnauthorized
	case status == 403:
		e.Message, e.Err = orDefault(msg, msgAccessDenied), ErrForbidden
	case status >= 500:
		e.Message, e.Err = orDefault(msg, msgServerError), ErrServer
	default:
		e.Message, e.Err = orDefault(msg, msgRequestFailed), ErrRequestFailed
	}
	return e
}

func transportError(sentinel error, msg string, cause error) *APIError {
	return &APIError{Status: 0, Message: msg, Err: fmt.Errorf("%w: %w", sentinel, cause)}
}

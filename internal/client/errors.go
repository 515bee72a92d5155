package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound reports a missing user or resource. RequestErrors with a
	// 404 status match it through errors.Is.
	ErrNotFound = errors.New("not found")
	// ErrBusy rejects a mutation while another one is in flight.
	ErrBusy = errors.New("another request is still in flight")
	// ErrClosed is returned once a page has been closed; late results are dropped.
	ErrClosed = errors.New("page closed")
	// ErrNotLoaded rejects mutations before the page reached the Loaded state.
	ErrNotLoaded = errors.New("profile is not loaded")
	// ErrReadOnly rejects mutations on a profile the viewer does not own.
	ErrReadOnly = errors.New("profile belongs to another user")
)

// ValidationError is raised before any network call when input is incomplete
// or malformed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// RequestError is a non-2xx response or a transport failure.
type RequestError struct {
	// StatusCode is 0 when no response was received.
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// UploadError rejects a file before upload: wrong type or too large.
type UploadError struct {
	Reason string
}

func (e *UploadError) Error() string {
	return "upload rejected: " + e.Reason
}

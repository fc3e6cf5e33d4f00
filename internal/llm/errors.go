package llm

import (
	"context"
	"errors"
	"fmt"
)

// Error is a provider failure normalised for classification.
type Error struct {
	Provider string
	Status   int    // HTTP status, 0 when the request never got a response
	Message  string // provider's human-readable message
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Detail())
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Detail())
}

// Unwrap returns the underlying SDK error.
func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status of the failed call.
func (e *Error) StatusCode() int { return e.Status }

// Detail returns the most specific human-readable message available.
func (e *Error) Detail() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// wrapTransport normalises errors that carry no HTTP status.
func wrapTransport(provider string, err error) *Error {
	msg := ""
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "request timed out"
	case errors.Is(err, context.Canceled):
		msg = "request canceled"
	}
	return &Error{Provider: provider, Message: msg, Err: err}
}

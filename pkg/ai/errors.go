package ai

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyPrompt is returned when there is nothing to send.
var ErrEmptyPrompt = errors.New("prompt is empty")

// MissingCredentialError reports an unset credential variable. Not retried.
type MissingCredentialError struct {
	Var string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential: please set the %s environment variable", e.Var)
}

func (e *MissingCredentialError) Retryable() bool { return false }

// TransportError wraps a network-level failure (connect, write, timeout).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Retryable() bool { return true }

// APIError is a non-2xx reply from the generate endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Retryable() bool { return true }

// IsRetryable reports whether err is a transient dispatch failure.
// Errors that do not declare themselves retryable are fatal, and so is
// anything caused by context cancellation.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var r interface{ Retryable() bool }
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}

package search

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrNoCredentials is returned when a lookup is attempted without a client
// id or secret.
var ErrNoCredentials = errors.New("search: missing client credentials")

// StatusError reports a non-200 answer from the shopping search API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("search: upstream status %d", e.Code)
	}
	return fmt.Sprintf("search: upstream status %d: %s", e.Code, e.Body)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	switch e.Code {
	case http.StatusRequestTimeout,
		http.StatusTooEarly,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// retryable classifies a failed page fetch. parent is the lookup's own
// context: once it is done nothing is retried, while a per-request timeout
// (a deadline on the derived context only) is.
func retryable(parent context.Context, err error) bool {
	if err == nil || parent.Err() != nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return isTimeout(err) || errors.Is(err, context.Canceled)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Package http is the JSON-over-HTTP client shared by the tracker
// backends and notification sinks.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Status sentinels, matched through APIError.Unwrap.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("authentication failed")
	ErrForbidden    = errors.New("permission denied")
	ErrNotFound     = errors.New("resource not found")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrServerError  = errors.New("server error")
)

// ErrMalformedResponse means a 2xx body could not be decoded.
var ErrMalformedResponse = errors.New("malformed response")

// APIError is a non-2xx response from a remote service.
type APIError struct {
	Service    string
	StatusCode int
	Endpoint   string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s API error (%d) at %s", e.Service, e.StatusCode, e.Endpoint)
	if e.RequestID != "" {
		msg += " [" + e.RequestID + "]"
	}
	return msg + ": " + e.Message
}

// Unwrap returns the sentinel for the status, if any.
func (e *APIError) Unwrap() error { return StatusSentinel(e.StatusCode) }

// Status returns the HTTP status code.
func (e *APIError) Status() int { return e.StatusCode }

// StatusError is implemented by errors that carry a remote HTTP status.
type StatusError interface {
	error
	Status() int
}

// StatusSentinel maps a status to its sentinel, or nil.
func StatusSentinel(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrBadRequest
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500:
		return ErrServerError
	default:
		return nil
	}
}

// StatusOf returns the remote status carried by err, or 0.
func StatusOf(err error) int {
	var se StatusError
	if errors.As(err, &se) {
		return se.Status()
	}
	return 0
}

// IsTimeout reports whether err came from a client timeout or an expired
// context deadline.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

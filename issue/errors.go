package issue

import (
	"errors"
	"fmt"
	"net/http"
)

// Operation names recorded on Error.
const (
	OpCreate = "create_issue"
	OpGet    = "get_issue"
)

// Kind classifies a failure for the transport layer.
type Kind string

// Failure kinds.
const (
	// KindBadRequest means the caller's input was malformed or incomplete.
	KindBadRequest Kind = "bad_request"

	// KindUnauthorized means the backend rejected the credentials.
	KindUnauthorized Kind = "unauthorized"

	// KindNotFound means the referenced issue or project does not exist.
	KindNotFound Kind = "not_found"

	// KindBackend is any other backend fault: unexpected status, broken
	// connection, or an undecodable response.
	KindBackend Kind = "backend"

	// KindTimeout means the backend did not answer in time.
	KindTimeout Kind = "timeout"
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrBackend      = errors.New("backend failure")
	ErrTimeout      = errors.New("backend timeout")
)

// Input errors.
var (
	ErrProjectRequired = errors.New("project id is required")
	ErrIssueIDRequired = errors.New("issue id is required")
	ErrIssueIDInvalid  = errors.New("invalid issue id")
	ErrTitleRequired   = errors.New("title is required")
	ErrBodyRequired    = errors.New("body is required")
	ErrInvalidName     = errors.New("invalid issue name")
)

// Error is a classified adapter failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind.sentinel())
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind.sentinel(), e.Err)
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func (k Kind) sentinel() error {
	switch k {
	case KindBadRequest:
		return ErrBadRequest
	case KindUnauthorized:
		return ErrUnauthorized
	case KindNotFound:
		return ErrNotFound
	case KindTimeout:
		return ErrTimeout
	default:
		return ErrBackend
	}
}

// KindOf returns the kind of err. Errors that were never classified are
// backend faults. A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBackend
}

// BadRequest wraps err as a KindBadRequest failure of op.
func BadRequest(op string, err error) *Error {
	return &Error{Kind: KindBadRequest, Op: op, Err: err}
}

// Backend wraps err as a KindBackend failure of op.
func Backend(op string, err error) *Error {
	return &Error{Kind: KindBackend, Op: op, Err: err}
}

// Timeout wraps err as a KindTimeout failure of op.
func Timeout(op string, err error) *Error {
	return &Error{Kind: KindTimeout, Op: op, Err: err}
}

// FromStatus classifies a non-2xx backend status.
func FromStatus(op string, status int, err error) *Error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &Error{Kind: KindUnauthorized, Op: op, Err: err}
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, Op: op, Err: err}
	default:
		return &Error{Kind: KindBackend, Op: op, Err: err}
	}
}

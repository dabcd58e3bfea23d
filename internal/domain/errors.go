package domain

import (
	"errors"
	"net/http"
)

var (
	// ErrEndpointNotFound signals a request for an unconfigured search endpoint.
	ErrEndpointNotFound = errors.New("endpoint not found")
	// ErrInvalidPolicy signals an endpoint policy that cannot be served.
	ErrInvalidPolicy = errors.New("invalid endpoint policy")
)

// Kind classifies a search failure.
type Kind string

const (
	// KindValidation is malformed, oversized or disallowed input.
	KindValidation Kind = "validation"
	// KindConflict is a set of mutually exclusive parameters.
	KindConflict Kind = "conflict"
	// KindBackend is a failed or errored backend search call.
	KindBackend Kind = "backend"
	// KindShape is a backend response without the expected hits container.
	KindShape Kind = "shape"
)

// Client-facing messages for backend and shape failures.
const (
	MsgBackendFailure = "Error during query execution."
	MsgNoResults      = "No results returned from query."
)

// Error is a search failure that terminates a single request.
// Message is always safe to show to the caller; Err carries the detail for logs.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewValidation creates a validation error surfaced with status 500.
func NewValidation(msg string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusInternalServerError, Message: msg}
}

// NewForbiddenField creates a validation error for queries on disallowed fields (status 400).
func NewForbiddenField(msg string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: msg}
}

// NewConflict creates a composition conflict error (status 500).
func NewConflict(msg string) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusInternalServerError, Message: msg}
}

// NewBackend wraps a backend failure behind the generic client message.
func NewBackend(err error) *Error {
	return &Error{Kind: KindBackend, Status: http.StatusInternalServerError, Message: MsgBackendFailure, Err: err}
}

// NewShape reports a backend response without hits.
func NewShape() *Error {
	return &Error{Kind: KindShape, Status: http.StatusInternalServerError, Message: MsgNoResults}
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

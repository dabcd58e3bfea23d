package searchgate

import "github.com/kailas-cloud/searchgate/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEndpointNotFound = domain.ErrEndpointNotFound
	ErrInvalidEndpoint  = domain.ErrInvalidPolicy
)

// Error is a rejected or failed search. Status is the HTTP status the
// server would answer with; Message is safe to show to end users.
type Error = domain.Error

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) { return domain.AsError(err) }

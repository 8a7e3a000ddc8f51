package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRateLimited is returned when the provider throttles or locks us out.
	ErrRateLimited = errors.New("rate limited")
	// ErrUnavailable covers timeouts and server-side failures.
	ErrUnavailable = errors.New("provider unavailable")
	// ErrAuth means the provider rejected our credentials.
	ErrAuth = errors.New("authentication rejected")
	// ErrBadQuery means the provider rejected the request itself.
	ErrBadQuery = errors.New("query rejected")
)

// ProviderError reports a non-success HTTP status from a provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s status %d: %v", e.Provider, e.StatusCode, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func statusError(provider string, code int) error {
	var kind error
	switch {
	case code == http.StatusTooManyRequests:
		kind = ErrRateLimited
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		kind = ErrAuth
	case code == http.StatusRequestTimeout || code >= 500:
		kind = ErrUnavailable
	default:
		kind = ErrBadQuery
	}
	return &ProviderError{Provider: provider, StatusCode: code, Err: kind}
}

// Retryable reports whether a failed search is worth repeating. Network
// failures and malformed responses are retryable; rejected credentials or
// queries, and caller cancellation, are not.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, ErrAuth), errors.Is(err, ErrBadQuery):
		return false
	}
	return true
}

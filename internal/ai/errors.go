package ai

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures. All kinds are recoverable by the
// orchestrator, which advances to the next candidate.
type ErrorKind string

const (
	KindUnauthenticated   ErrorKind = "unauthenticated"
	KindRateLimited       ErrorKind = "rate_limited"
	KindTimeout           ErrorKind = "timeout"
	KindUnreachable       ErrorKind = "unreachable"
	KindMalformedResponse ErrorKind = "malformed_response"
)

// ProviderError wraps a backend failure with its provider id and kind.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("provider %s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func newProviderError(provider string, kind ErrorKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// KindOf extracts the error kind when err is (or wraps) a ProviderError.
func KindOf(err error) (ErrorKind, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

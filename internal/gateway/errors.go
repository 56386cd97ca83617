package gateway

import (
	"errors"
	"fmt"
)

// Sentinel errors for the gateway failure taxonomy. Callers match with
// errors.Is; the orchestrator recovers all of them silently.
var (
	// ErrNoCredentials means no provider has a configured API key. The
	// gateway returns it synchronously, before any network attempt.
	ErrNoCredentials = errors.New("no generation credentials configured")

	// ErrAllProvidersFailed means every configured provider was attempted
	// in order and all failed. It wraps the last provider's error.
	ErrAllProvidersFailed = errors.New("all generation providers failed")

	// ErrMalformedOutput means a structured object was expected in the
	// generated text but was absent or unparseable.
	ErrMalformedOutput = errors.New("malformed generation output")
)

// ProviderError carries per-provider failure detail during failover.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

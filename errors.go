package forge

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrNoProviders indicates no provider is configured with credentials.
	ErrNoProviders = errors.New("no providers configured")

	// ErrRecoveryExhausted indicates every recovery stage failed to produce
	// parseable output.
	ErrRecoveryExhausted = errors.New("recovery exhausted")

	// ErrNotFound indicates the requested workspace does not exist.
	ErrNotFound = errors.New("not found")
)

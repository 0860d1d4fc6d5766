package forge

import (
	"context"
	"fmt"
	"strings"
)

// ProviderID identifies an upstream model provider.
type ProviderID string

const (
	ProviderGemini    ProviderID = "gemini"
	ProviderDeepSeek  ProviderID = "deepseek"
	ProviderAnthropic ProviderID = "anthropic"
)

// ParseProviderID parses a provider name, case-insensitively.
func ParseProviderID(s string) (ProviderID, error) {
	switch id := ProviderID(strings.ToLower(strings.TrimSpace(s))); id {
	case ProviderGemini, ProviderDeepSeek, ProviderAnthropic:
		return id, nil
	default:
		return "", fmt.Errorf("unknown provider %q: %w", s, ErrValidation)
	}
}

// Provider is a strategy pattern interface for upstream model providers.
//
// Complete performs exactly one outbound call and no retries. Failures are
// returned as *ProviderError with the kind mapped at the client boundary.
// Cancellation and deadlines flow through ctx.
type Provider interface {
	ID() ProviderID
	// Configured reports whether the provider has credentials. An
	// unconfigured provider must fail without a network call.
	Configured() bool
	Complete(ctx context.Context, req Request) (Completion, error)
}

// Request carries one prompt to a provider. Mode selects generation
// parameters; History is sent before Prompt as prior conversation turns.
type Request struct {
	Mode         Mode
	SystemPrompt string
	History      []Message
	Prompt       string
}

// Completion is the raw text produced by exactly one successful provider call.
type Completion struct {
	Provider   ProviderID
	Text       string
	StopReason StopReason
	Usage      Usage
}

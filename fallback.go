package forge

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultProviderTimeout bounds a single provider call.
const DefaultProviderTimeout = 60 * time.Second

// Fallback tries providers in priority order until one succeeds. Calls are
// strictly sequential: the next provider is only invoked after the current
// one has definitively failed.
type Fallback struct {
	providers []Provider
	timeout   time.Duration
	logger    *slog.Logger
	recorder  Recorder
}

// FallbackOption configures a Fallback.
type FallbackOption func(*Fallback)

// WithFallbackTimeout sets the per-provider call timeout. Zero disables it
// and leaves only the caller's deadline.
func WithFallbackTimeout(d time.Duration) FallbackOption {
	return func(f *Fallback) {
		f.timeout = d
	}
}

// WithFallbackLogger sets the logger for attempt records.
func WithFallbackLogger(l *slog.Logger) FallbackOption {
	return func(f *Fallback) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithFallbackRecorder sets the recorder that observes each attempt.
func WithFallbackRecorder(r Recorder) FallbackOption {
	return func(f *Fallback) {
		if r != nil {
			f.recorder = r
		}
	}
}

// NewFallback creates a Fallback over providers in priority order.
func NewFallback(providers []Provider, opts ...FallbackOption) *Fallback {
	f := &Fallback{
		providers: append([]Provider(nil), providers...),
		timeout:   DefaultProviderTimeout,
		logger:    slog.New(slog.DiscardHandler),
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Providers returns the configured providers in priority order.
func (f *Fallback) Providers() []Provider {
	return append([]Provider(nil), f.providers...)
}

// Order returns the providers in the order Run would try them for
// preferred. An unknown or empty preferred leaves the priority order.
func (f *Fallback) Order(preferred ProviderID) []Provider {
	out := make([]Provider, 0, len(f.providers))
	for _, p := range f.providers {
		if preferred != "" && p.ID() == preferred {
			out = append(out, p)
		}
	}
	for _, p := range f.providers {
		if preferred == "" || p.ID() != preferred {
			out = append(out, p)
		}
	}
	return out
}

// Run sends req to each provider in turn and returns the first success.
//
// When every provider fails, the error of the first provider that failed
// for a reason other than quota is returned, else the first error. Every
// returned error is a *ProviderError. An empty provider list or one with no
// configured provider fails with KindUnavailable before any network call.
func (f *Fallback) Run(ctx context.Context, req Request, preferred ProviderID) (Completion, error) {
	order := f.Order(preferred)
	if !anyConfigured(order) {
		return Completion{}, &ProviderError{Kind: KindUnavailable, Message: ErrNoProviders.Error(), Err: ErrNoProviders}
	}

	var errs []*ProviderError
	for _, p := range order {
		c, err := f.attempt(ctx, p, req)
		if err == nil {
			return c, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return Completion{}, surface(errs)
}

func (f *Fallback) attempt(ctx context.Context, p Provider, req Request) (Completion, *ProviderError) {
	id := p.ID()
	if !p.Configured() {
		err := &ProviderError{Kind: KindUnavailable, Provider: id, Message: "no credentials configured", Err: ErrNoProviders}
		f.logger.Info("provider skipped", "provider", id, "mode", req.Mode, "kind", err.Kind)
		f.recorder.ProviderAttempt(id, req.Mode, err, 0)
		return Completion{}, err
	}

	callCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	c, err := p.Complete(callCtx, req)
	d := time.Since(start)
	if err != nil {
		pe := AsProviderError(id, err)
		if ctx.Err() != nil && !errors.Is(pe, ctx.Err()) {
			pe = &ProviderError{Kind: KindTransient, Provider: id, Message: ctx.Err().Error(), Err: ctx.Err()}
		}
		f.logger.Warn("provider failed", "provider", id, "mode", req.Mode, "kind", pe.Kind, "duration", d, "error", pe.Message)
		f.recorder.ProviderAttempt(id, req.Mode, pe, d)
		return Completion{}, pe
	}
	if c.Provider == "" {
		c.Provider = id
	}
	f.logger.Info("provider succeeded", "provider", id, "mode", req.Mode, "duration", d,
		"stop_reason", c.StopReason, "input_tokens", c.Usage.InputTokens, "output_tokens", c.Usage.OutputTokens)
	f.recorder.ProviderAttempt(id, req.Mode, nil, d)
	return c, nil
}

func anyConfigured(ps []Provider) bool {
	for _, p := range ps {
		if p.Configured() {
			return true
		}
	}
	return false
}

// surface picks the error to report from failed attempts in order.
func surface(errs []*ProviderError) *ProviderError {
	for _, e := range errs {
		if e.Kind != KindQuotaExceeded {
			return e
		}
	}
	return errs[0]
}

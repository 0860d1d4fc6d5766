package forge

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultProbeTimeout bounds each liveness probe.
const DefaultProbeTimeout = 10 * time.Second

// ProviderStatus is the advisory availability of each provider.
type ProviderStatus struct {
	// Available holds one entry per configured provider.
	Available map[ProviderID]bool
	// Active is the first available provider in priority order, or "".
	Active ProviderID
}

// StatusChecker probes providers with a minimal chat request. Probes run
// concurrently and never touch the state Fallback uses.
type StatusChecker struct {
	providers []Provider
	timeout   time.Duration
}

// NewStatusChecker creates a StatusChecker over providers in priority
// order. A non-positive timeout selects DefaultProbeTimeout.
func NewStatusChecker(providers []Provider, timeout time.Duration) *StatusChecker {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &StatusChecker{providers: append([]Provider(nil), providers...), timeout: timeout}
}

// Check probes every provider. Unconfigured providers are reported
// unavailable without a call.
func (s *StatusChecker) Check(ctx context.Context) ProviderStatus {
	ok := make([]bool, len(s.providers))
	var g errgroup.Group
	for i, p := range s.providers {
		if !p.Configured() {
			continue
		}
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			_, err := p.Complete(probeCtx, Request{Mode: ModeChat, Prompt: "test"})
			ok[i] = err == nil
			return nil
		})
	}
	_ = g.Wait()

	st := ProviderStatus{Available: make(map[ProviderID]bool, len(s.providers))}
	for i, p := range s.providers {
		st.Available[p.ID()] = ok[i]
		if ok[i] && st.Active == "" {
			st.Active = p.ID()
		}
	}
	return st
}

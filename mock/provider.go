// Package mock provides test doubles for forge interfaces using function fields.
package mock

import (
	"context"
	"time"

	"github.com/fwojciec/forge"
)

// Interface compliance checks.
var (
	_ forge.Provider        = (*Provider)(nil)
	_ forge.DocumentParser  = (*DocumentParser)(nil)
	_ forge.DocumentChecker = (*DocumentChecker)(nil)
	_ forge.WorkspaceStore  = (*WorkspaceStore)(nil)
	_ forge.Recorder        = (*Recorder)(nil)
)

// Provider is a test double for forge.Provider.
// Set IDFn, ConfiguredFn and CompleteFn before use.
type Provider struct {
	IDFn         func() forge.ProviderID
	ConfiguredFn func() bool
	CompleteFn   func(ctx context.Context, req forge.Request) (forge.Completion, error)
}

// ID delegates to IDFn.
func (p *Provider) ID() forge.ProviderID {
	return p.IDFn()
}

// Configured delegates to ConfiguredFn.
func (p *Provider) Configured() bool {
	return p.ConfiguredFn()
}

// Complete delegates to CompleteFn.
func (p *Provider) Complete(ctx context.Context, req forge.Request) (forge.Completion, error) {
	return p.CompleteFn(ctx, req)
}

// DocumentParser is a test double for forge.DocumentParser.
type DocumentParser struct {
	ParseDocumentFn func(text string) (forge.Document, forge.Recovery, error)
}

// ParseDocument delegates to ParseDocumentFn.
func (p *DocumentParser) ParseDocument(text string) (forge.Document, forge.Recovery, error) {
	return p.ParseDocumentFn(text)
}

// DocumentChecker is a test double for forge.DocumentChecker.
type DocumentChecker struct {
	CheckFn func(doc forge.Document, env forge.Environment) []string
}

// Check delegates to CheckFn.
func (c *DocumentChecker) Check(doc forge.Document, env forge.Environment) []string {
	return c.CheckFn(doc, env)
}

// WorkspaceStore is a test double for forge.WorkspaceStore.
type WorkspaceStore struct {
	GetFn func(ctx context.Context, id string) (forge.Workspace, error)
	PutFn func(ctx context.Context, ws forge.Workspace) error
}

// Get delegates to GetFn.
func (s *WorkspaceStore) Get(ctx context.Context, id string) (forge.Workspace, error) {
	return s.GetFn(ctx, id)
}

// Put delegates to PutFn.
func (s *WorkspaceStore) Put(ctx context.Context, ws forge.Workspace) error {
	return s.PutFn(ctx, ws)
}

// Recorder is a test double for forge.Recorder. Nil function fields are
// no-ops, since the pipeline calls every method on each request.
type Recorder struct {
	ProviderAttemptFn func(id forge.ProviderID, mode forge.Mode, err error, d time.Duration)
	RecoveredFn       func(stage string)
	RequestDoneFn     func(op string, err error, d time.Duration)
}

// ProviderAttempt delegates to ProviderAttemptFn.
func (r *Recorder) ProviderAttempt(id forge.ProviderID, mode forge.Mode, err error, d time.Duration) {
	if r.ProviderAttemptFn != nil {
		r.ProviderAttemptFn(id, mode, err, d)
	}
}

// Recovered delegates to RecoveredFn.
func (r *Recorder) Recovered(stage string) {
	if r.RecoveredFn != nil {
		r.RecoveredFn(stage)
	}
}

// RequestDone delegates to RequestDoneFn.
func (r *Recorder) RequestDone(op string, err error, d time.Duration) {
	if r.RequestDoneFn != nil {
		r.RequestDoneFn(op, err, d)
	}
}

package forge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Pipeline is the entry point for generation requests. It builds the
// provider prompt, runs the fallback chain and recovers a Document from
// the winning completion. A Pipeline is safe for concurrent use.
type Pipeline struct {
	fallback *Fallback
	parser   DocumentParser
	checker  DocumentChecker
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRecorder sets the recorder for request and recovery outcomes.
func WithRecorder(r Recorder) PipelineOption {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithChecker adds environment rule checks whose findings are reported as
// warnings.
func WithChecker(c DocumentChecker) PipelineOption {
	return func(p *Pipeline) {
		p.checker = c
	}
}

// WithClock sets the time source used to stamp workspaces.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPipeline creates a Pipeline.
func NewPipeline(fallback *Fallback, parser DocumentParser, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		fallback: fallback,
		parser:   parser,
		logger:   slog.New(slog.DiscardHandler),
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GenerationResult is the outcome of a successful Generate call.
type GenerationResult struct {
	Document Document
	Provider ProviderID
	// Stage is the recovery stage that produced parseable text.
	Stage       string
	Diagnostics []Diagnostic
	// Warnings lists document inconsistencies that were passed through.
	Warnings []string
}

// Generate produces a Document for req. Failures are *ProviderError or
// *RecoveryError, both attributed to a provider when one was attempted,
// or errors wrapping ErrValidation.
func (p *Pipeline) Generate(ctx context.Context, req GenerationRequest) (res GenerationResult, err error) {
	start := time.Now()
	defer func() { p.recorder.RequestDone("generate", err, time.Since(start)) }()

	if err := req.Validate(); err != nil {
		return GenerationResult{}, err
	}
	env := ResolveEnvironment(string(req.Environment))

	c, err := p.fallback.Run(ctx, codeGenRequest(req.Prompt, env), req.PreferredProvider)
	if err != nil {
		return GenerationResult{}, err
	}
	if c.StopReason == StopLength {
		p.logger.Warn("completion truncated", "provider", c.Provider, "output_tokens", c.Usage.OutputTokens)
	}

	doc, rec, err := p.parser.ParseDocument(c.Text)
	if err != nil {
		p.recorder.Recovered("")
		var re *RecoveryError
		if errors.As(err, &re) {
			cp := *re
			cp.Provider = c.Provider
			cp.StopReason = c.StopReason
			p.logger.Warn("recovery exhausted", "provider", c.Provider, "stages", len(cp.Diagnostics), "stop_reason", c.StopReason)
			return GenerationResult{}, &cp
		}
		return GenerationResult{}, &ProviderError{Kind: KindMalformed, Provider: c.Provider, Message: err.Error(), Err: err}
	}
	p.recorder.Recovered(rec.Stage)

	warnings := doc.Warnings()
	if p.checker != nil {
		warnings = append(warnings, p.checker.Check(doc, env)...)
	}
	p.logger.Info("document generated", "provider", c.Provider, "environment", env, "stage", rec.Stage,
		"files", len(doc.Files), "warnings", len(warnings))

	return GenerationResult{
		Document:    doc,
		Provider:    c.Provider,
		Stage:       rec.Stage,
		Diagnostics: rec.Diagnostics,
		Warnings:    warnings,
	}, nil
}

// EnhanceResult is the outcome of an Enhance call.
type EnhanceResult struct {
	Prompt   string
	Provider ProviderID
}

// Enhance rewrites prompt into a more specific one for env.
func (p *Pipeline) Enhance(ctx context.Context, prompt string, env Environment) (res EnhanceResult, err error) {
	start := time.Now()
	defer func() { p.recorder.RequestDone("enhance", err, time.Since(start)) }()

	if strings.TrimSpace(prompt) == "" {
		return EnhanceResult{}, errEmptyPrompt
	}
	c, err := p.fallback.Run(ctx, enhanceRequest(prompt, ResolveEnvironment(string(env))), "")
	if err != nil {
		return EnhanceResult{}, err
	}
	return EnhanceResult{Prompt: strings.TrimSpace(c.Text), Provider: c.Provider}, nil
}

// ChatResult is the outcome of a Chat call.
type ChatResult struct {
	Text     string
	Provider ProviderID
}

// Chat answers a free-form prompt.
func (p *Pipeline) Chat(ctx context.Context, prompt string) (res ChatResult, err error) {
	start := time.Now()
	defer func() { p.recorder.RequestDone("chat", err, time.Since(start)) }()

	if strings.TrimSpace(prompt) == "" {
		return ChatResult{}, errEmptyPrompt
	}
	c, err := p.fallback.Run(ctx, chatRequest(prompt), "")
	if err != nil {
		return ChatResult{}, err
	}
	return ChatResult{Text: c.Text, Provider: c.Provider}, nil
}

// GenerateInWorkspace runs one generation turn in the workspace id. The
// prompt sent to providers is the workspace conversation followed by the
// new prompt. On success the user prompt and the document are recorded
// and the workspace is stored. A missing workspace is created with
// req.Environment; an existing one keeps its own environment.
func (p *Pipeline) GenerateInWorkspace(ctx context.Context, store WorkspaceStore, id string, req GenerationRequest) (GenerationResult, Workspace, error) {
	if err := ValidateWorkspaceID(id); err != nil {
		return GenerationResult{}, Workspace{}, err
	}
	ws, err := store.Get(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		ws = Workspace{ID: id, Environment: ResolveEnvironment(string(req.Environment))}
	case err != nil:
		return GenerationResult{}, Workspace{}, err
	}

	turn := req
	turn.Environment = ws.Environment
	if history := ws.Conversation(); history != "" && strings.TrimSpace(req.Prompt) != "" {
		turn.Prompt = history + "\nuser: " + req.Prompt
	}
	res, err := p.Generate(ctx, turn)
	if err != nil {
		return GenerationResult{}, Workspace{}, err
	}

	ws.Messages = append(append([]Message(nil), ws.Messages...), UserMessage{Text: req.Prompt})
	ws = ws.Apply(res.Document, p.now())
	if err := store.Put(ctx, ws); err != nil {
		return GenerationResult{}, Workspace{}, fmt.Errorf("store workspace: %w", err)
	}
	return res, ws, nil
}

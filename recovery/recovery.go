// Package recovery turns almost-JSON model output into parseable text.
//
// Text is fenced-stripped and span-extracted, then passed through an
// escalating sequence of stages (repair, sanitize, aggressive). Each stage
// consumes the previous stage's output and a parse is attempted after
// each one. The first stage whose output parses wins; failures are kept
// as diagnostics.
package recovery

import (
	"log/slog"
	"unicode/utf8"

	"github.com/fwojciec/forge"
	forgelog "github.com/fwojciec/forge/log"
)

// Stage names, in escalation order.
const (
	StageExtract    = "extract"
	StageRepair     = "repair"
	StageSanitize   = "sanitize"
	StageAggressive = "aggressive"
)

// DefaultPrefixLen bounds text prefixes kept in diagnostics and errors.
const DefaultPrefixLen = 200

type stage struct {
	name string
	fn   func(string) string
}

var stages = []stage{
	{StageExtract, func(s string) string { return s }},
	{StageRepair, Repair},
	{StageSanitize, Sanitize},
	{StageAggressive, Aggressive},
}

// Engine runs the recovery stages. An Engine is stateless and safe for
// concurrent use.
type Engine struct {
	prefixLen int
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithPrefixLen sets the maximum number of bytes of text kept in
// diagnostics and errors.
func WithPrefixLen(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.prefixLen = n
		}
	}
}

// WithLogger sets the logger for stage failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		prefixLen: DefaultPrefixLen,
		logger:    forgelog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the text that parsed and how it was obtained.
type Result struct {
	Stage       string
	Text        string
	Diagnostics []forge.Diagnostic
}

// Recover finds the first stage whose output parse accepts. When none
// does it returns a *forge.RecoveryError listing every stage attempted,
// with Provider left empty for the caller to fill in.
func (e *Engine) Recover(raw string, parse func(string) error) (Result, error) {
	normalized := StripFences(raw)
	span, ok := ExtractSpan(normalized)
	if !ok {
		return Result{}, &forge.RecoveryError{
			RawPrefix: e.prefix(raw),
			Diagnostics: []forge.Diagnostic{{
				Stage:  StageExtract,
				Prefix: e.prefix(normalized),
				Err:    "no object or array found",
			}},
		}
	}

	var diags []forge.Diagnostic
	text := span
	for _, st := range stages {
		text = st.fn(text)
		err := parse(text)
		if err == nil {
			return Result{Stage: st.name, Text: text, Diagnostics: diags}, nil
		}
		e.logger.Debug("recovery stage failed", "stage", st.name, "error", err)
		diags = append(diags, forge.Diagnostic{Stage: st.name, Prefix: e.prefix(text), Err: err.Error()})
	}
	return Result{}, &forge.RecoveryError{RawPrefix: e.prefix(raw), Diagnostics: diags}
}

// prefix returns at most prefixLen bytes of s, cut at a rune boundary.
func (e *Engine) prefix(s string) string {
	if len(s) <= e.prefixLen {
		return s
	}
	n := e.prefixLen
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Decoder decodes parseable document text.
type Decoder func(data []byte) (forge.Document, error)

// DocumentParser recovers a forge.Document from completion text.
type DocumentParser struct {
	engine *Engine
	decode Decoder
}

var _ forge.DocumentParser = (*DocumentParser)(nil)

// NewDocumentParser creates a DocumentParser that accepts the first stage
// output decode succeeds on.
func NewDocumentParser(engine *Engine, decode Decoder) *DocumentParser {
	return &DocumentParser{engine: engine, decode: decode}
}

// ParseDocument implements forge.DocumentParser.
func (p *DocumentParser) ParseDocument(text string) (forge.Document, forge.Recovery, error) {
	var doc forge.Document
	res, err := p.engine.Recover(text, func(s string) error {
		d, err := p.decode([]byte(s))
		if err != nil {
			return err
		}
		doc = d
		return nil
	})
	if err != nil {
		return forge.Document{}, forge.Recovery{}, err
	}
	return doc, forge.Recovery{Stage: res.Stage, Diagnostics: res.Diagnostics}, nil
}

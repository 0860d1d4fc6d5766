package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/forge"
	"github.com/fwojciec/forge/anthropic"
	"github.com/fwojciec/forge/deepseek"
	"github.com/fwojciec/forge/gemini"
)

// providerConfig holds the key and optional endpoint override of one
// provider. All values are resolved before construction; env is only read
// in main().
type providerConfig struct {
	key     string
	baseURL string
	model   string
}

// resolveProviders parses the comma-separated priority list and builds a
// client for each entry. A provider without a key is still built: it
// reports itself unconfigured and the fallback chain skips it.
func resolveProviders(ctx context.Context, list string, cfgs map[forge.ProviderID]providerConfig) ([]forge.Provider, error) {
	var providers []forge.Provider
	seen := make(map[forge.ProviderID]bool)
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		id, err := forge.ParseProviderID(name)
		if err != nil {
			return nil, fmt.Errorf("unknown provider %q: must be gemini, deepseek or anthropic", strings.TrimSpace(name))
		}
		if seen[id] {
			return nil, fmt.Errorf("provider %s listed twice", id)
		}
		seen[id] = true

		p, err := newProvider(ctx, id, cfgs[id])
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers listed")
	}
	return providers, nil
}

func newProvider(ctx context.Context, id forge.ProviderID, cfg providerConfig) (forge.Provider, error) {
	switch id {
	case forge.ProviderGemini:
		var opts []gemini.Option
		if cfg.baseURL != "" {
			opts = append(opts, gemini.WithBaseURL(cfg.baseURL))
		}
		if cfg.model != "" {
			opts = append(opts, gemini.WithModel(cfg.model))
		}
		client, err := gemini.New(ctx, cfg.key, opts...)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return client, nil
	case forge.ProviderDeepSeek:
		var opts []deepseek.Option
		if cfg.baseURL != "" {
			opts = append(opts, deepseek.WithBaseURL(cfg.baseURL))
		}
		if cfg.model != "" {
			opts = append(opts, deepseek.WithModel(cfg.model))
		}
		return deepseek.New(cfg.key, opts...), nil
	default:
		var opts []anthropic.Option
		if cfg.baseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.baseURL))
		}
		if cfg.model != "" {
			opts = append(opts, anthropic.WithModel(cfg.model))
		}
		return anthropic.New(cfg.key, opts...), nil
	}
}

func providerIDs(ps []forge.Provider) []forge.ProviderID {
	ids := make([]forge.ProviderID, len(ps))
	for i, p := range ps {
		ids[i] = p.ID()
	}
	return ids
}

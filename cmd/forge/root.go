package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/forge"
	"github.com/fwojciec/forge/fs"
	forgejson "github.com/fwojciec/forge/json"
	forgelog "github.com/fwojciec/forge/log"
	"github.com/fwojciec/forge/recovery"
	forgeredis "github.com/fwojciec/forge/redis"
	"github.com/spf13/cobra"
)

// options holds the persistent flags shared by every command.
type options struct {
	providers       string
	keys            map[forge.ProviderID]*string
	baseURLs        map[forge.ProviderID]*string
	models          map[forge.ProviderID]*string
	providerTimeout time.Duration
	prefixLen       int
	logFile         string
	verbose         bool
	redisAddr       string
	redisPassword   string
	redisDB         int
	workspaceDir    string
	noColor         bool
}

var keyEnv = map[forge.ProviderID]string{
	forge.ProviderGemini:    "GEMINI_API_KEY",
	forge.ProviderDeepSeek:  "DEEPSEEK_API_KEY",
	forge.ProviderAnthropic: "ANTHROPIC_API_KEY",
}

var allProviders = []forge.ProviderID{forge.ProviderGemini, forge.ProviderDeepSeek, forge.ProviderAnthropic}

func newRootCmd(getenv func(string) string, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{
		keys:     map[forge.ProviderID]*string{},
		baseURLs: map[forge.ProviderID]*string{},
		models:   map[forge.ProviderID]*string{},
	}
	root := &cobra.Command{
		Use:           "forge",
		Short:         "Generate multi-file projects from a prompt",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.StringVar(&opts.providers, "providers", "gemini,deepseek,anthropic", "provider priority order")
	for _, id := range allProviders {
		opts.keys[id] = f.String(string(id)+"-key", "", fmt.Sprintf("%s API key (default $%s)", id, keyEnv[id]))
		opts.baseURLs[id] = f.String(string(id)+"-base-url", "", fmt.Sprintf("%s API base URL override", id))
		opts.models[id] = f.String(string(id)+"-model", "", fmt.Sprintf("%s model ID", id))
	}
	f.DurationVar(&opts.providerTimeout, "provider-timeout", forge.DefaultProviderTimeout, "timeout for each provider call")
	f.IntVar(&opts.prefixLen, "prefix-len", recovery.DefaultPrefixLen, "bytes of raw text kept in recovery diagnostics")
	f.StringVar(&opts.logFile, "log-file", "", "write JSON logs to this rotating file instead of stderr")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug records")
	f.StringVar(&opts.redisAddr, "redis-addr", "", "store workspaces in Redis at this address")
	f.StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	f.IntVar(&opts.redisDB, "redis-db", 0, "Redis database")
	f.StringVar(&opts.workspaceDir, "workspace-dir", defaultWorkspaceDir(), "directory for file-backed workspaces")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newServeCmd(opts, getenv),
		newGenerateCmd(opts, getenv),
		newEnhanceCmd(opts, getenv),
		newChatCmd(opts, getenv),
		newStatusCmd(opts, getenv),
	)
	return root
}

func defaultWorkspaceDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".forge", "workspaces")
}

// app is the wired object graph for one command run.
type app struct {
	providers []forge.Provider
	pipeline  *forge.Pipeline
	status    *forge.StatusChecker
	logger    *slog.Logger
	theme     forge.Theme
	closers   []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// build wires providers, recovery and the pipeline from opts. Flag values
// take precedence over the environment.
// rec may be nil.
func build(ctx context.Context, opts *options, getenv func(string) string, stderr io.Writer, rec forge.Recorder) (*app, error) {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger, closeLog := forgelog.New(forgelog.Config{
		File:       opts.logFile,
		Level:      level,
		MaxSizeMB:  15,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}, stderr)
	a := &app{logger: logger, theme: forge.DefaultTheme(), closers: []func() error{closeLog}}
	if opts.noColor {
		a.theme = forge.PlainTheme()
	}

	cfgs := make(map[forge.ProviderID]providerConfig, len(allProviders))
	for _, id := range allProviders {
		key := *opts.keys[id]
		if key == "" {
			key = getenv(keyEnv[id])
		}
		cfgs[id] = providerConfig{key: key, baseURL: *opts.baseURLs[id], model: *opts.models[id]}
	}
	providers, err := resolveProviders(ctx, opts.providers, cfgs)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.providers = providers

	engine := recovery.New(recovery.WithPrefixLen(opts.prefixLen), recovery.WithLogger(logger))
	parser := recovery.NewDocumentParser(engine, forgejson.DecodeDocument)
	fallback := forge.NewFallback(providers,
		forge.WithFallbackTimeout(opts.providerTimeout),
		forge.WithFallbackLogger(logger),
		forge.WithFallbackRecorder(rec),
	)
	a.pipeline = forge.NewPipeline(fallback, parser,
		forge.WithLogger(logger),
		forge.WithRecorder(rec),
		forge.WithChecker(fs.Checker{}),
	)
	a.status = forge.NewStatusChecker(providers, forge.DefaultProbeTimeout)
	return a, nil
}

// openStore returns the Redis store when an address is set, else the
// file store.
func (a *app) openStore(ctx context.Context, opts *options) (forge.WorkspaceStore, error) {
	if opts.redisAddr == "" {
		return forgejson.NewStore(opts.workspaceDir), nil
	}
	client, err := forgeredis.Dial(ctx, opts.redisAddr, opts.redisPassword, opts.redisDB)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	return forgeredis.New(client), nil
}

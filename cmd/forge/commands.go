package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/forge"
	"github.com/fwojciec/forge/fs"
	"github.com/fwojciec/forge/goldmark"
	forgehttp "github.com/fwojciec/forge/http"
	forgejson "github.com/fwojciec/forge/json"
	forgeprom "github.com/fwojciec/forge/prometheus"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const (
	renderWidth     = 80
	shutdownTimeout = 10 * time.Second
)

func newServeCmd(opts *options, getenv func(string) string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			a, err := build(ctx, opts, getenv, cmd.ErrOrStderr(), forgeprom.New(reg))
			if err != nil {
				return err
			}
			defer a.Close()
			store, err := a.openStore(ctx, opts)
			if err != nil {
				return err
			}
			srv := forgehttp.NewServer(forgehttp.Config{
				Pipeline:  a.pipeline,
				Status:    a.status,
				Providers: providerIDs(a.providers),
				Store:     store,
				Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
				Logger:    a.logger,
			})
			return srv.ListenAndServe(ctx, addr, shutdownTimeout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func newGenerateCmd(opts *options, getenv func(string) string) *cobra.Command {
	var (
		env       string
		preferred string
		out       string
		workspace string
		showCode  bool
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Generate a project document from a prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := build(ctx, opts, getenv, cmd.ErrOrStderr(), nil)
			if err != nil {
				return err
			}
			defer a.Close()

			req := forge.GenerationRequest{
				Prompt:            strings.Join(args, " "),
				Environment:       forge.Environment(env),
				PreferredProvider: forge.ProviderID(preferred),
			}
			var (
				res     forge.GenerationResult
				written []forge.File
			)
			if workspace != "" {
				store, err := a.openStore(ctx, opts)
				if err != nil {
					return err
				}
				if workspace == "new" {
					workspace = uuid.NewString()
				}
				var ws forge.Workspace
				res, ws, err = a.pipeline.GenerateInWorkspace(ctx, store, workspace, req)
				if err != nil {
					return describe(err)
				}
				written = ws.Files
				fmt.Fprintf(cmd.ErrOrStderr(), "workspace %s saved\n", ws.ID)
			} else {
				res, err = a.pipeline.Generate(ctx, req)
				if err != nil {
					return describe(err)
				}
				written = res.Document.Files
			}

			if asJSON {
				data, err := forgejson.MarshalGeneration(res)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), goldmark.RenderResult(res, renderWidth, a.theme))
				if showCode {
					for _, f := range res.Document.Files {
						fmt.Fprintln(cmd.OutOrStdout())
						fmt.Fprintln(cmd.OutOrStdout(), goldmark.RenderFile(f, a.theme))
					}
				}
			}

			if out != "" {
				paths, err := fs.WriteFiles(out, written)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d files to %s\n", len(paths), out)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&env, "env", "e", string(forge.EnvComponentApp), "target environment: component-app (react), templated-site (wordpress), static-site (html)")
	fl.StringVar(&preferred, "provider", "", "try this provider first")
	fl.StringVarP(&out, "out", "o", "", "write the files to this directory")
	fl.StringVarP(&workspace, "workspace", "w", "", `continue the workspace with this id ("new" creates one)`)
	fl.BoolVar(&showCode, "show-code", false, "print every file")
	fl.BoolVar(&asJSON, "json", false, "print the API response body instead of rendering")
	return cmd
}

func newEnhanceCmd(opts *options, getenv func(string) string) *cobra.Command {
	var env string
	cmd := &cobra.Command{
		Use:   "enhance [prompt]",
		Short: "Rewrite a prompt into a more specific one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build(cmd.Context(), opts, getenv, cmd.ErrOrStderr(), nil)
			if err != nil {
				return err
			}
			defer a.Close()
			res, err := a.pipeline.Enhance(cmd.Context(), strings.Join(args, " "), forge.Environment(env))
			if err != nil {
				return describe(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Prompt)
			return nil
		},
	}
	cmd.Flags().StringVarP(&env, "env", "e", string(forge.EnvComponentApp), "target environment")
	return cmd
}

func newChatCmd(opts *options, getenv func(string) string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [prompt]",
		Short: "Ask a free-form question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build(cmd.Context(), opts, getenv, cmd.ErrOrStderr(), nil)
			if err != nil {
				return err
			}
			defer a.Close()
			res, err := a.pipeline.Chat(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return describe(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), goldmark.Render(res.Text, renderWidth, a.theme))
			return nil
		},
	}
}

func newStatusCmd(opts *options, getenv func(string) string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe every provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := build(cmd.Context(), opts, getenv, cmd.ErrOrStderr(), nil)
			if err != nil {
				return err
			}
			defer a.Close()
			st := a.status.Check(cmd.Context())
			for _, id := range providerIDs(a.providers) {
				state := "unavailable"
				if st.Available[id] {
					state = "available"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", id, state)
			}
			active := string(st.Active)
			if active == "" {
				active = "none"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "active: %s\n", active)
			return nil
		},
	}
}

// describe prefixes err with its error code and, for recovery failures,
// appends the stages tried.
func describe(err error) error {
	var details strings.Builder
	var re *forge.RecoveryError
	if errors.As(err, &re) {
		for _, d := range re.Diagnostics {
			fmt.Fprintf(&details, "\n  %s: %s", d.Stage, d.Err)
		}
		if re.RawPrefix != "" {
			fmt.Fprintf(&details, "\n  raw: %q", re.RawPrefix)
		}
	}
	return fmt.Errorf("%s: %w%s", forgejson.ErrorCode(err), err, details.String())
}

// Command forge generates multi-file projects from a prompt using a
// fallback chain of LLM providers.
//
// Usage:
//
//	GEMINI_API_KEY=... forge generate --env react "a todo app"
//	forge serve --addr :8080
//	forge status
//
// Keys are read from GEMINI_API_KEY, DEEPSEEK_API_KEY and
// ANTHROPIC_API_KEY unless given as flags.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(os.Getenv, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "forge: %v\n", err)
		os.Exit(1)
	}
}

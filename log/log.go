// Package log builds the process slog logger, optionally writing JSON
// records to a rotating file.
package log

import (
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes where and how the process logs.
type Config struct {
	// File is the log file path. Empty logs as text to the fallback writer.
	File  string
	Level slog.Level
	// Rotation limits, used only when File is set. Zero values take
	// lumberjack's defaults.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// New returns a logger for cfg and a function that releases its output.
// Without a file, records go to w as text.
func New(cfg Config, w io.Writer) (*slog.Logger, func() error) {
	opts := &slog.HandlerOptions{Level: cfg.Level, ReplaceAttr: redact}
	if cfg.File == "" {
		return slog.New(slog.NewTextHandler(w, opts)), func() error { return nil }
	}
	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	return slog.New(slog.NewJSONHandler(lj, opts)), lj.Close
}

var secretKeys = map[string]bool{
	"api_key":       true,
	"apikey":        true,
	"key":           true,
	"authorization": true,
	"password":      true,
	"token":         true,
}

// redact masks attributes whose key names a credential.
func redact(_ []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] && a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, mask(a.Value.String()))
	}
	return a
}

func mask(v string) string {
	if len(v) <= 4 {
		return "****"
	}
	return "****" + v[len(v)-4:]
}

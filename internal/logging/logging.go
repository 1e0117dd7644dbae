// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the console's slog loggers.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pdiddy/article-console/pkg/types"
)

// New creates a text slog.Logger on stderr at the configured level. Stdout
// is left to command output.
func New(cfg types.LoggingConfig) *slog.Logger {
	return NewWriter(os.Stderr, cfg.Level)
}

// NewWriter creates a text slog.Logger writing to w.
func NewWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: levelFromString(level),
	})
	return slog.New(handler)
}

// Component returns logger tagged with the component name.
func Component(logger *slog.Logger, name string) *slog.Logger {
	return logger.With("component", name)
}

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

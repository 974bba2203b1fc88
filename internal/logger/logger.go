// Package logger builds the process-wide *slog.Logger.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup returns a *slog.Logger configured for the given environment and
// installs it as the slog default, so handlers can call slog.Info directly.
//
// Development (dev): human-readable text output at DEBUG level.
// Staging: JSON output at DEBUG level.
// Production (prod): JSON output at INFO level.
func Setup(env string) *slog.Logger {
	log := New(os.Stdout, env)
	slog.SetDefault(log)
	return log
}

// New builds the logger without touching the slog default.
func New(w io.Writer, env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default: // "dev" and anything unrecognised
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

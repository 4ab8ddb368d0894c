// Package logger builds the process-wide slog logger. Production runs
// emit JSON for log aggregation; everything else gets human-readable
// text for local play.
package logger

import (
	"log/slog"
	"os"

	"github.com/jwebster45206/dreambound/internal/config"
)

// Setup builds the root logger from config and installs it as the slog
// default so library code logs through the same handler.
func Setup(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler).With("service", "dreambound")
	slog.SetDefault(log)
	return log
}

// WithSlot scopes a logger to one save slot, so turns from concurrent
// sessions can be told apart in aggregated logs.
func WithSlot(log *slog.Logger, slot string) *slog.Logger {
	return log.With("slot", slot)
}

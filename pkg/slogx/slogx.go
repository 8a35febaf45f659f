package slogx

import (
	"log/slog"
	"os"
	"strings"
)

// Handler formats accepted by Config.Format.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// DefaultService is used when Config.Service is left empty.
const DefaultService = "rolodex"

type Config struct {
	Service string
	Version string
	Env     string // e.g. "dev", "prod"
	Level   string // e.g. "debug", "info", "warn", "error"
	Format  string // FormatJSON (default) or FormatText
}

// New returns a configured slog.Logger and installs it as the process
// default.
func New(cfg Config) *slog.Logger {
	if cfg.Service == "" {
		cfg.Service = DefaultService
	}

	opts := &slog.HandlerOptions{
		AddSource: cfg.Env == "dev", // Add source info in dev mode
		Level:     parseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case FormatText:
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With(
		"service", cfg.Service,
		"version", cfg.Version,
		"env", cfg.Env,
	)

	slog.SetDefault(logger)
	return logger
}

// parseLevel maps a string to slog.Level.
func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

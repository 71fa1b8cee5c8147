package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the output level and the optional Sentry fan-out.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Sentry SentryConfig
}

// ParseLevel maps debug, info, warn and error to slog levels.
// Unknown values resolve to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New creates a JSON logger on stdout. When cfg.Sentry.DSN is set, records
// are also forwarded to Sentry. Extractors apply to both destinations.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return NewWriter(os.Stdout, cfg, extractors...)
}

// NewWriter is New with an explicit destination.
func NewWriter(w io.Writer, cfg Config, extractors ...ContextExtractor) *slog.Logger {
	var h slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	})
	if sh, ok := sentryHandler(cfg.Sentry, h); ok {
		h = newMultiHandler(h, sh)
	}
	return slog.New(NewLogHandlerDecorator(h, extractors...))
}

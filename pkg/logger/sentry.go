package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// Warnings are kept as Sentry logs unless MinLevel is error.
	MinLevel slog.Level
}

// sentryHandler initializes the SDK. It reports false when the DSN is empty
// or initialization fails; the failure is logged through fallback.
func sentryHandler(cfg SentryConfig, fallback slog.Handler) (slog.Handler, bool) {
	if cfg.DSN == "" {
		return nil, false
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(fallback).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return nil, false
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	return sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background()), true
}

// FlushSentry waits for buffered Sentry events. Safe to call when Sentry was
// never initialized.
func FlushSentry(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

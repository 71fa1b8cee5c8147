// Package logger builds the application's structured logger.
//
// Records are JSON on stdout. Context extractors add request-scoped
// attributes (such as the request id) on every call:
//
//	log := logger.New(logger.Config{Level: "debug"}, middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "dispatched", slog.String("route", "user/edit/42"))
//
// With a Sentry DSN, errors additionally become Sentry events and warnings are
// kept as Sentry logs. An empty DSN leaves stdout as the only destination.
//
// ExceptionSink is a separate append-only file that receives one JSON line per
// uncaught dispatch failure (see Report).
package logger

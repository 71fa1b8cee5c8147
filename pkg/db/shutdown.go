package db

import "context"

// Shutdown returns a function that closes the adapter.
// Use with colony.WithShutdownHook().
//
// Example:
//
//	app := colony.New(cfg,
//	    colony.WithShutdownHook(db.Shutdown(adapter)),
//	)
func Shutdown(a Adapter) func(ctx context.Context) error {
	return func(context.Context) error {
		return a.Close()
	}
}

// Healthcheck returns a closure suitable for health.Check.
func Healthcheck(a Adapter) func(ctx context.Context) error {
	return a.Ping
}

package db

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// OpenFunc builds an Adapter from configuration.
type OpenFunc func(ctx context.Context, cfg Config) (Adapter, error)

var (
	driversMu sync.RWMutex
	drivers   = map[string]OpenFunc{
		"postgres": func(ctx context.Context, cfg Config) (Adapter, error) { return OpenPostgres(ctx, cfg) },
		"sqlite":   func(ctx context.Context, cfg Config) (Adapter, error) { return OpenSQLite(ctx, cfg) },
		"none":     func(context.Context, Config) (Adapter, error) { return None{}, nil },
	}
)

// Register makes an adapter available under name, replacing any previous one.
func Register(name string, fn OpenFunc) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[name] = fn
}

// Drivers returns the registered adapter names in sorted order.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Open builds the adapter selected by cfg.Type. An empty type means "none".
func Open(ctx context.Context, cfg Config) (Adapter, error) {
	name := cfg.Type
	if name == "" {
		name = "none"
	}

	driversMu.RLock()
	fn, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
	return fn(ctx, cfg)
}

package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect establishes a PostgreSQL connection pool with retry logic.
// Uses linear backoff to handle transient network issues without overwhelming the database.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	connConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	if cfg.MaxOpenConns > 0 {
		connConfig.MaxConns = cfg.MaxOpenConns
	}
	if cfg.MinConns > 0 {
		connConfig.MinConns = cfg.MinConns
	}
	if cfg.HealthCheckPeriod > 0 {
		connConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	if cfg.MaxConnIdleTime > 0 {
		connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.MaxConnLifetime > 0 {
		connConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	// Attempt 1 waits RetryInterval, attempt 2 waits 2x, attempt 3 waits 3x.
	attempts := max(cfg.RetryAttempts, 1)
	for i := range attempts {
		conn, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err != nil {
			if werr := wait(ctx, time.Duration(i+1)*cfg.RetryInterval); werr != nil {
				return nil, werr
			}
			continue
		}

		// Ping catches authentication and permission issues.
		if err := conn.Ping(ctx); err != nil {
			conn.Close()
			if werr := wait(ctx, time.Duration(i+1)*cfg.RetryInterval); werr != nil {
				return nil, werr
			}
			continue
		}

		return conn, nil
	}

	return nil, ErrFailedToOpenDBConnection
}

func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
	case <-time.After(d):
		return nil
	}
}

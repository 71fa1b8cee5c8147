// Package db is the database boundary of the framework.
//
// Controllers and the session store talk to an [Adapter], a small interface
// of keyed row operations plus raw Query/Exec. Three adapters ship with the
// package:
//
//   - postgres, built on [github.com/jackc/pgx/v5/pgxpool] with retry on connect
//   - sqlite, built on [github.com/mattn/go-sqlite3] with a single connection
//   - none, for applications without a database
//
// The adapter is picked by name from [Config.Type] through a registry;
// [Register] adds custom ones.
//
// # Configuration
//
//	DB_TYPE                     - postgres, sqlite or none (default: none)
//	DATABASE_URL                - connection URL or sqlite file path
//	DATABASE_MAX_OPEN_CONNS     - Maximum open connections (default: 10)
//	DATABASE_MIN_CONNS          - Minimum idle connections (default: 2)
//	DATABASE_HEALTHCHECK_PERIOD - Health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - Maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME  - Maximum connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS     - Connection retry attempts (default: 3)
//	DATABASE_RETRY_INTERVAL     - Base retry interval (default: 5s)
//	DATABASE_MIGRATIONS_TABLE   - Migrations table name (default: schema_migrations)
//
// # Usage
//
//	adapter, err := db.Open(ctx, db.Config{Type: "sqlite", URL: "var/app.db"})
//	if err != nil {
//		return err
//	}
//	defer adapter.Close()
//
//	if err := db.Migrate(ctx, adapter, nil, "", logger); err != nil {
//		return err
//	}
//
//	row, err := adapter.Get(ctx, "session", db.Where{"session_id": id})
//	if errors.Is(err, db.ErrNoRows) {
//		// not found
//	}
//
// Raw statements use "?" placeholders everywhere; the postgres adapter
// rewrites them to "$n":
//
//	n, err := adapter.Exec(ctx, `DELETE FROM "session" WHERE "time" < ?`, cutoff)
//
// # Migrations
//
// [Migrate] runs [github.com/pressly/goose/v3] migrations. With a nil FS it
// applies the framework's own schema, which creates the session table.
package db

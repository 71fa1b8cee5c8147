package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the database/sql adapter over mattn/go-sqlite3.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database file named by cfg.URL (":memory:" works too)
// with a single connection, WAL journaling and foreign keys enabled.
func OpenSQLite(ctx context.Context, cfg Config) (*SQLite, error) {
	dsn := cfg.URL
	if dsn == "" {
		return nil, errors.Join(ErrFailedToParseDBConfig, errors.New("empty sqlite path"))
	}
	if !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000"
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenDBConnection, err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY and keeps
	// ":memory:" databases alive for the pool's lifetime.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			_ = conn.Close()
			return nil, errors.Join(ErrFailedToOpenDBConnection, err)
		}
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Join(ErrFailedToOpenDBConnection, err)
	}

	return &SQLite{db: conn}, nil
}

// DB exposes the underlying handle.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

func (s *SQLite) Get(ctx context.Context, table string, where Where) (Row, error) {
	stmt, args, err := buildSelect(table, where)
	if err != nil {
		return nil, err
	}
	rows, err := s.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}

func (s *SQLite) Insert(ctx context.Context, table string, row Row) (int64, error) {
	stmt, args, err := buildInsert(table, row)
	if err != nil {
		return 0, err
	}
	return s.Exec(ctx, stmt, args...)
}

func (s *SQLite) Update(ctx context.Context, table string, row Row, keyField string, keyValue any) (int64, error) {
	stmt, args, err := buildUpdate(table, row, keyField, keyValue)
	if err != nil {
		return 0, err
	}
	return s.Exec(ctx, stmt, args...)
}

func (s *SQLite) Query(ctx context.Context, stmt string, args ...any) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Join(ErrQuery, err)
		}

		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	return out, nil
}

func (s *SQLite) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, errors.Join(ErrQuery, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Join(ErrQuery, err)
	}
	return n, nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) sqlDB() (*sql.DB, string) {
	return s.db, "sqlite3"
}

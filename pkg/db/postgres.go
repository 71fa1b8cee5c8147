package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Postgres is the pgx-backed Adapter.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// OpenPostgres connects using cfg and wraps the pool.
func OpenPostgres(ctx context.Context, cfg Config) (*Postgres, error) {
	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewPostgres(pool), nil
}

// Pool exposes the underlying pool for code that needs pgx directly.
func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *Postgres) Get(ctx context.Context, table string, where Where) (Row, error) {
	stmt, args, err := buildSelect(table, where)
	if err != nil {
		return nil, err
	}
	rows, err := p.Query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}

func (p *Postgres) Insert(ctx context.Context, table string, row Row) (int64, error) {
	stmt, args, err := buildInsert(table, row)
	if err != nil {
		return 0, err
	}
	return p.Exec(ctx, stmt, args...)
}

func (p *Postgres) Update(ctx context.Context, table string, row Row, keyField string, keyValue any) (int64, error) {
	stmt, args, err := buildUpdate(table, row, keyField, keyValue)
	if err != nil {
		return 0, err
	}
	return p.Exec(ctx, stmt, args...)
}

func (p *Postgres) Query(ctx context.Context, stmt string, args ...any) ([]Row, error) {
	rows, err := p.pool.Query(ctx, rebindDollar(stmt), args...)
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}

	out := make([]Row, len(maps))
	for i, m := range maps {
		out[i] = Row(m)
	}
	return out, nil
}

func (p *Postgres) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	tag, err := p.pool.Exec(ctx, rebindDollar(stmt), args...)
	if err != nil {
		return 0, errors.Join(ErrQuery, err)
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// sqlDB bridges the pool to database/sql for goose.
// The returned handle shares the pool's connections and must not be closed.
func (p *Postgres) sqlDB() (*sql.DB, string) {
	return stdlib.OpenDBFromPool(p.pool), "postgres"
}

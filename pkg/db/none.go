package db

import "context"

// None is the adapter for applications without a database.
// Every data operation fails with ErrNoDatabase; Ping and Close succeed.
type None struct{}

func (None) Get(context.Context, string, Where) (Row, error) { return nil, ErrNoDatabase }

func (None) Insert(context.Context, string, Row) (int64, error) { return 0, ErrNoDatabase }

func (None) Update(context.Context, string, Row, string, any) (int64, error) {
	return 0, ErrNoDatabase
}

func (None) Query(context.Context, string, ...any) ([]Row, error) { return nil, ErrNoDatabase }

func (None) Exec(context.Context, string, ...any) (int64, error) { return 0, ErrNoDatabase }

func (None) Ping(context.Context) error { return nil }

func (None) Close() error { return nil }

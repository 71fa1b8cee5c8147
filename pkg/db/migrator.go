package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations returns the framework's own schema (the session table).
func Migrations() fs.FS {
	sub, _ := fs.Sub(embedded, "migrations")
	return sub
}

type migratable interface {
	sqlDB() (*sql.DB, string)
}

// goose keeps its dialect, table and base FS in package globals.
var gooseMu sync.Mutex

// Migrate applies migrations from fsys (the framework schema when nil) to a.
// Adapters without SQL access, such as None, are skipped.
func Migrate(ctx context.Context, a Adapter, fsys fs.FS, migrationTable string, log *slog.Logger) error {
	m, ok := a.(migratable)
	if !ok {
		return nil
	}
	if fsys == nil {
		fsys = Migrations()
	}
	if migrationTable == "" {
		migrationTable = "schema_migrations"
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	// The postgres handle shares the pool's connections; closing it would
	// disrupt the pool, so it is left open.
	db, dialect := m.sqlDB()

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(fsys)
	goose.SetLogger(&gooseLoggerAdapter{log})
	goose.SetTableName(migrationTable)

	if err := goose.SetDialect(dialect); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	return nil
}

type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	// goose returns an error that propagates up; no os.Exit here.
	g.log.Error(fmt.Sprintf(format, args...))
}

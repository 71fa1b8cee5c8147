package db

import "errors"

var (
	ErrFailedToParseDBConfig    = errors.New("db: failed to parse database configuration")
	ErrFailedToOpenDBConnection = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed        = errors.New("db: healthcheck failed")
	ErrUnknownDriver            = errors.New("db: unknown database type")
	ErrNoRows                   = errors.New("db: no rows in result set")
	ErrNoDatabase               = errors.New("db: no database configured")
	ErrInvalidIdentifier        = errors.New("db: invalid table or column name")
	ErrEmptyRow                 = errors.New("db: row has no columns")
	ErrQuery                    = errors.New("db: query failed")
	ErrSetDialect               = errors.New("db migrator: failed to set dialect")
	ErrApplyMigrations          = errors.New("db migrator: failed to apply migrations")
)

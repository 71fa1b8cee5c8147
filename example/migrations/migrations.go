// Package migrations holds the example application's schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Table is the goose version table for the example schema, kept apart from
// the framework's own.
const Table = "example_migrations"

package db

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Row is a single record keyed by column name.
type Row map[string]any

// Where is a set of column equality conditions joined with AND.
type Where map[string]any

// Adapter is the database boundary used by the framework.
//
// Statements passed to Query and Exec use "?" placeholders on every adapter;
// adapters with a different bind style rewrite them.
type Adapter interface {
	// Get returns the first row of table matching where, or ErrNoRows.
	Get(ctx context.Context, table string, where Where) (Row, error)
	// Insert writes row into table and returns the number of affected rows.
	Insert(ctx context.Context, table string, row Row) (int64, error)
	// Update writes row into the record identified by keyField = keyValue and
	// returns the number of affected rows.
	Update(ctx context.Context, table string, row Row, keyField string, keyValue any) (int64, error)
	// Query runs a raw statement and returns all rows.
	Query(ctx context.Context, stmt string, args ...any) ([]Row, error)
	// Exec runs a raw statement and returns the number of affected rows.
	Exec(ctx context.Context, stmt string, args ...any) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// QuoteIdent validates a table or column name and wraps it in double quotes.
// Only ASCII letters, digits and underscores are accepted.
func QuoteIdent(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
		}
	}
	return `"` + name + `"`, nil
}

// sortedKeys keeps generated statements deterministic.
func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func buildSelect(table string, where Where) (string, []any, error) {
	t, err := QuoteIdent(table)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(t)

	args := make([]any, 0, len(where))
	for i, k := range sortedKeys(where) {
		col, err := QuoteIdent(k)
		if err != nil {
			return "", nil, err
		}
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(col)
		b.WriteString(" = ?")
		args = append(args, where[k])
	}
	b.WriteString(" LIMIT 1")

	return b.String(), args, nil
}

func buildInsert(table string, row Row) (string, []any, error) {
	if len(row) == 0 {
		return "", nil, ErrEmptyRow
	}
	t, err := QuoteIdent(table)
	if err != nil {
		return "", nil, err
	}

	keys := sortedKeys(row)
	cols := make([]string, len(keys))
	marks := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		if cols[i], err = QuoteIdent(k); err != nil {
			return "", nil, err
		}
		marks[i] = "?"
		args[i] = row[k]
	}

	stmt := "INSERT INTO " + t + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	return stmt, args, nil
}

func buildUpdate(table string, row Row, keyField string, keyValue any) (string, []any, error) {
	if len(row) == 0 {
		return "", nil, ErrEmptyRow
	}
	t, err := QuoteIdent(table)
	if err != nil {
		return "", nil, err
	}
	key, err := QuoteIdent(keyField)
	if err != nil {
		return "", nil, err
	}

	keys := sortedKeys(row)
	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		col, err := QuoteIdent(k)
		if err != nil {
			return "", nil, err
		}
		sets[i] = col + " = ?"
		args = append(args, row[k])
	}
	args = append(args, keyValue)

	stmt := "UPDATE " + t + " SET " + strings.Join(sets, ", ") + " WHERE " + key + " = ?"
	return stmt, args, nil
}

// rebindDollar rewrites "?" placeholders into "$1", "$2", ... leaving
// quoted literals and identifiers untouched.
func rebindDollar(stmt string) string {
	var b strings.Builder
	b.Grow(len(stmt) + 8)

	n := 0
	var quote rune
	for _, c := range stmt {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

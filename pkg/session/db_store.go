package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/colony/pkg/db"
)

// DefaultTable is the table created by the framework migrations.
const DefaultTable = "session"

// DBStore keeps sessions in a relational table through a db.Adapter:
//
//	session_id TEXT PRIMARY KEY, data TEXT, time BIGINT
//
// data holds the JSON-encoded session data, time the unix seconds of the
// last save.
type DBStore struct {
	db    db.Adapter
	table string
}

// NewDBStore returns a store over a. An empty table means DefaultTable.
func NewDBStore(a db.Adapter, table string) *DBStore {
	if table == "" {
		table = DefaultTable
	}
	return &DBStore{db: a, table: table}
}

func (s *DBStore) Create(ctx context.Context, sess *Session) error {
	data, err := encodeData(sess.Data)
	if err != nil {
		return err
	}
	_, err = s.db.Insert(ctx, s.table, db.Row{
		"session_id": sess.ID,
		"data":       data,
		"time":       sess.UpdatedAt.Unix(),
	})
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

func (s *DBStore) Get(ctx context.Context, id string) (*Session, error) {
	row, err := s.db.Get(ctx, s.table, db.Where{"session_id": id})
	if errors.Is(err, db.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}

	raw, _ := row["data"].(string)
	data, err := decodeData(raw)
	if err != nil {
		return nil, err
	}
	ts, err := unixSeconds(row["time"])
	if err != nil {
		return nil, errors.Join(ErrCorruptData, err)
	}

	return &Session{
		ID:        id,
		Data:      data,
		UpdatedAt: time.Unix(ts, 0),
	}, nil
}

// Update writes data and time. A row purged in the meantime by a concurrent
// request is inserted again so the save is never lost.
func (s *DBStore) Update(ctx context.Context, sess *Session) error {
	data, err := encodeData(sess.Data)
	if err != nil {
		return err
	}
	n, err := s.db.Update(ctx, s.table, db.Row{
		"data": data,
		"time": sess.UpdatedAt.Unix(),
	}, "session_id", sess.ID)
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	if n == 0 {
		return s.Create(ctx, sess)
	}
	return nil
}

func (s *DBStore) Delete(ctx context.Context, id string) error {
	table, err := db.QuoteIdent(s.table)
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM `+table+` WHERE "session_id" = ?`, id); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

func (s *DBStore) Purge(ctx context.Context, olderThan time.Time) (int64, error) {
	table, err := db.QuoteIdent(s.table)
	if err != nil {
		return 0, errors.Join(ErrStore, err)
	}
	n, err := s.db.Exec(ctx, `DELETE FROM `+table+` WHERE "time" < ?`, olderThan.Unix())
	if err != nil {
		return 0, errors.Join(ErrStore, err)
	}
	return n, nil
}

func unixSeconds(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	default:
		return 0, fmt.Errorf("unexpected time column type %T", v)
	}
}

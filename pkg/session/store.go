package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Store defines the interface for session persistence.
// Implementations wrap storage failures with ErrStore.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by its ID.
	// Returns ErrNotFound if the session doesn't exist.
	Get(ctx context.Context, id string) (*Session, error)

	// Update saves the session data and timestamp.
	// Last write wins when concurrent requests share a session.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session by its ID.
	Delete(ctx context.Context, id string) error

	// Purge removes sessions last saved before olderThan and reports how
	// many were removed. Stores with native expiry may report zero.
	Purge(ctx context.Context, olderThan time.Time) (int64, error)
}

func encodeData(data map[string]any) (string, error) {
	if len(data) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", errors.Join(ErrStore, err)
	}
	return string(b), nil
}

func decodeData(raw string) (map[string]any, error) {
	data := make(map[string]any)
	if raw == "" {
		return data, nil
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, errors.Join(ErrCorruptData, err)
	}
	if data == nil {
		data = make(map[string]any)
	}
	return data, nil
}

package session

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math/rand/v2"
	"time"
)

// Session is the server-side state identified by the session cookie.
//
// Data is serialized as JSON by every store, so after a round trip numbers
// come back as float64 and nested values as map[string]any / []any.
type Session struct {
	UpdatedAt time.Time
	Data      map[string]any
	ID        string

	isNew bool
}

// New creates an empty session with the given ID.
func New(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Data:      make(map[string]any),
		UpdatedAt: now,
		isNew:     true,
	}
}

// NewID returns a fresh session identifier: the hex SHA-1 of the current
// time in nanoseconds and a pseudo-random number.
//
// The identifier is not cryptographically strong. It is unique enough to
// avoid collisions but guessable by an attacker who knows the creation time.
func NewID(now time.Time) string {
	sum := sha1.Sum(fmt.Appendf(nil, "%d.%d", now.UnixNano(), rand.Uint64()))
	return hex.EncodeToString(sum[:])
}

// IsNew reports whether the session was created during this request.
func (s *Session) IsNew() bool {
	return s.isNew
}

// SetValue stores a value in the session.
func (s *Session) SetValue(key string, val any) {
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = val
}

// GetValue retrieves a value from the session.
func (s *Session) GetValue(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	val, ok := s.Data[key]
	return val, ok
}

// DeleteValue removes a value from the session.
func (s *Session) DeleteValue(key string) {
	if s.Data != nil {
		delete(s.Data, key)
	}
}

// Expired reports whether the session was last saved before now - timeout.
// A non-positive timeout never expires.
func (s *Session) Expired(now time.Time, timeout time.Duration) bool {
	if timeout <= 0 {
		return false
	}
	return s.UpdatedAt.Before(now.Add(-timeout))
}

// Value is a typed helper to retrieve session values with type safety.
// Returns an error if the key doesn't exist or type assertion fails.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}

	typed, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%w: key %q holds %T", ErrTypeMismatch, key, val)
	}

	return typed, nil
}

// ValueOr is a typed helper that returns a default value if the key
// doesn't exist or type assertion fails.
func ValueOr[T any](s *Session, key string, defaultVal T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return defaultVal
	}
	return val
}

package session

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type memoryRecord struct {
	updatedAt time.Time
	data      string
}

// MemoryStore keeps sessions in process memory with a TTL equal to the
// session timeout. Data is JSON-encoded like in the other stores, so values
// read back have the same types everywhere.
type MemoryStore struct {
	cache *ttlcache.Cache[string, memoryRecord]
}

// NewMemoryStore returns an in-memory store. A non-positive ttl keeps
// sessions until they are purged.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl < 0 {
		ttl = ttlcache.NoTTL
	}
	return &MemoryStore{
		cache: ttlcache.New(
			ttlcache.WithTTL[string, memoryRecord](ttl),
			ttlcache.WithDisableTouchOnHit[string, memoryRecord](),
		),
	}
}

func (s *MemoryStore) put(sess *Session) error {
	data, err := encodeData(sess.Data)
	if err != nil {
		return err
	}
	s.cache.Set(sess.ID, memoryRecord{data: data, updatedAt: sess.UpdatedAt}, ttlcache.DefaultTTL)
	return nil
}

func (s *MemoryStore) Create(_ context.Context, sess *Session) error {
	return s.put(sess)
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	item := s.cache.Get(id)
	if item == nil {
		return nil, ErrNotFound
	}
	rec := item.Value()
	data, err := decodeData(rec.data)
	if err != nil {
		return nil, err
	}
	return &Session{ID: id, Data: data, UpdatedAt: rec.updatedAt}, nil
}

func (s *MemoryStore) Update(_ context.Context, sess *Session) error {
	return s.put(sess)
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

func (s *MemoryStore) Purge(_ context.Context, olderThan time.Time) (int64, error) {
	s.cache.DeleteExpired()

	var n int64
	for id, item := range s.cache.Items() {
		if item.Value().updatedAt.Before(olderThan) {
			s.cache.Delete(id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}

package session_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/colony/pkg/session"
)

func TestRedisStore_Integration(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := session.NewRedisStore(client, time.Minute)

	sess := session.New(session.NewID(time.Now()), time.Now())
	sess.SetValue("name", "bob")
	require.NoError(t, store.Create(ctx, sess))
	t.Cleanup(func() { _ = store.Delete(ctx, sess.ID) })

	loaded, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", loaded.Data["name"])

	ttl, err := client.TTL(ctx, "session:"+sess.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	n, err := store.Purge(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	require.ErrorIs(t, err, session.ErrNotFound)
}

package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/colony/pkg/redis"
)

func TestOptions(t *testing.T) {
	t.Parallel()

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Options(redis.Config{})
		require.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("invalid scheme", func(t *testing.T) {
		t.Parallel()
		for _, u := range []string{"http://localhost:6379", "localhost:6379", "postgres://x"} {
			_, err := redis.Options(redis.Config{URL: u})
			require.ErrorIs(t, err, redis.ErrFailedToParseURL, u)
		}
	})

	t.Run("applies pool settings", func(t *testing.T) {
		t.Parallel()
		opts, err := redis.Options(redis.Config{
			URL:          "redis://localhost:6380/2",
			PoolSize:     7,
			ReadTimeout:  time.Second,
			DialTimeout:  2 * time.Second,
			MinIdleConns: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, "localhost:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 7, opts.PoolSize)
		assert.Equal(t, 1, opts.MinIdleConns)
		assert.Equal(t, time.Second, opts.ReadTimeout)
		assert.Equal(t, 2*time.Second, opts.DialTimeout)
	})
}

func TestOpen_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := redis.Open(ctx, redis.Config{
		URL:           "redis://127.0.0.1:1/0",
		DialTimeout:   100 * time.Millisecond,
		RetryAttempts: 2,
		RetryInterval: 10 * time.Millisecond,
	})
	require.ErrorIs(t, err, redis.ErrConnectionFailed)
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	err := redis.Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, redis.ErrHealthcheckFailed)
}

func TestOpen_Integration(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := redis.Open(ctx, redis.Config{URL: url})
	require.NoError(t, err)
	require.NoError(t, redis.Healthcheck(client)(ctx))
	require.NoError(t, redis.Shutdown(client)(ctx))
}

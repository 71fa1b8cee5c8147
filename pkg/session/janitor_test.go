package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/colony/pkg/session"
)

func TestJanitor_InvalidSchedule(t *testing.T) {
	t.Parallel()

	m := session.NewManager(session.NewMemoryStore(time.Hour))
	_, err := session.NewJanitor(m, "not a schedule", nil)
	require.ErrorIs(t, err, session.ErrInvalidSchedule)
}

func TestJanitor_Purges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newClock()
	store := session.NewMemoryStore(0)

	purged := make(chan int64, 1)
	m := newManager(t, store, c, session.WithOnPurge(func(n int64) {
		select {
		case purged <- n:
		default:
		}
	}))

	_, err := m.New(ctx, nil)
	require.NoError(t, err)
	c.Advance(2 * time.Hour)

	j, err := session.NewJanitor(m, "@every 1s", nil)
	require.NoError(t, err)
	require.NoError(t, j.Start(ctx))
	t.Cleanup(func() { _ = j.Stop(context.Background()) })

	select {
	case n := <-purged:
		assert.Equal(t, int64(1), n)
	case <-time.After(5 * time.Second):
		t.Fatal("janitor did not purge")
	}
	assert.Zero(t, store.Len())
}

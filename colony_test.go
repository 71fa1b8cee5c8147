package colony_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/colony"
	"github.com/dmitrymomot/colony/pkg/config"
	"github.com/dmitrymomot/colony/pkg/db"
	"github.com/dmitrymomot/colony/pkg/display"
	"github.com/dmitrymomot/colony/pkg/session"
)

type greeter struct{}

func (greeter) Methods() colony.Methods {
	return colony.Methods{
		"hello": func(c *colony.Context, extra colony.Extra) error {
			c.Set("name", extra.String())
			return nil
		},
		"teapot": func(*colony.Context, colony.Extra) error {
			return colony.NewHTTPError(http.StatusTeapot, "short and stout")
		},
	}
}

func newTestApp(t *testing.T) *colony.App {
	t.Helper()

	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.ThrowExceptions = false
	cfg.LogExceptions = false
	cfg.SessionPurgeSchedule = ""

	app, err := colony.New(context.Background(), cfg,
		colony.WithDB(db.None{}),
		colony.WithSessionStore(session.NewMemoryStore(cfg.Timeout())),
		colony.WithRenderer(display.NewFS(fstest.MapFS{
			"greeter/hello.html": {Data: []byte(`Hello, {{.name}}!`)},
		})),
		colony.WithMetrics(false),
		colony.WithController("greeter", colony.Static(greeter{})),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	return app
}

func TestApp(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/greeter/hello/world", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello, world!", rec.Body.String())

	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/greeter/teapot", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, rec.Body.String(), "short and stout")
}

func TestNew_NilConfig(t *testing.T) {
	t.Parallel()

	_, err := colony.New(context.Background(), nil)
	require.ErrorIs(t, err, colony.ErrConfiguration)
}

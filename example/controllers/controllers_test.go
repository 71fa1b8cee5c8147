package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/colony"
	"github.com/dmitrymomot/colony/example/controllers"
	"github.com/dmitrymomot/colony/example/migrations"
	"github.com/dmitrymomot/colony/example/views"
	"github.com/dmitrymomot/colony/pkg/config"
	"github.com/dmitrymomot/colony/pkg/db"
	"github.com/dmitrymomot/colony/pkg/display"
	"github.com/dmitrymomot/colony/pkg/session"
)

type client struct {
	t      *testing.T
	app    *colony.App
	cookie *http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.app.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.DefaultCookieName {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) get(target string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (c *client) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func newClient(t *testing.T) *client {
	t.Helper()
	ctx := context.Background()

	cfg, err := config.Load("../config.yaml")
	require.NoError(t, err)
	cfg.SessionType = config.SessionMemory
	cfg.SessionPurgeSchedule = ""
	cfg.LogExceptions = false
	cfg.ThrowExceptions = false
	cfg.Metrics = false

	adapter, err := db.OpenSQLite(ctx, db.Config{Type: "sqlite", URL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })
	require.NoError(t, db.Migrate(ctx, adapter, migrations.FS, migrations.Table, nil))

	app, err := colony.New(ctx, cfg,
		colony.WithDB(adapter),
		colony.WithSessionStore(session.NewMemoryStore(cfg.Timeout())),
		colony.WithRenderer(display.NewFS(views.FS)),
		colony.WithControllers(controllers.All()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(ctx) })

	return &client{t: t, app: app}
}

func TestContacts(t *testing.T) {
	t.Parallel()

	c := newClient(t)

	rec := c.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "0 contacts so far")

	rec = c.post("/contacts/save", url.Values{"contact[name]": {""}, "contact[email]": {"bad"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/contacts/new", rec.Header().Get("Location"))

	rec = c.get("/contacts/new")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<li>Name is required</li>")
	assert.Contains(t, body, "<li>Email address is invalid</li>")
	assert.Contains(t, body, `value="bad"`)

	rec = c.get("/contacts/new")
	assert.NotContains(t, rec.Body.String(), "Name is required")
	assert.NotContains(t, rec.Body.String(), `value="bad"`)

	rec = c.post("/contacts/save", url.Values{"contact[name]": {"Ada Lovelace"}, "contact[email]": {"ada@example.com"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/contacts", rec.Header().Get("Location"))

	rec = c.get("/contacts")
	assert.Contains(t, rec.Body.String(), "Ada Lovelace")

	rec = c.get("/c/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ada@example.com")

	rec = c.get("/contacts/view/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "contact not found")

	rec = c.get("/contacts/delete/1")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = c.post("/contacts/delete/1", nil)
	require.Equal(t, http.StatusFound, rec.Code)

	rec = c.get("/contacts")
	assert.Contains(t, rec.Body.String(), "No contacts yet.")
}

func TestContacts_SpecialCharacters(t *testing.T) {
	t.Parallel()

	c := newClient(t)

	rec := c.post("/contacts/save", url.Values{"contact[name]": {"Tom & Jerry"}, "contact[email]": {"tom@example.com"}})
	require.Equal(t, http.StatusFound, rec.Code)

	rec = c.get("/contacts")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tom &amp; Jerry")
	assert.NotContains(t, rec.Body.String(), "&amp;amp;")

	rec = c.post("/contacts/save", url.Values{"contact[name]": {`O'Hara <x>`}, "contact[email]": {"bad"}})
	require.Equal(t, http.StatusFound, rec.Code)

	rec = c.get("/contacts/new")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "O&#39;Hara &lt;x&gt;")
	assert.NotContains(t, rec.Body.String(), "&amp;")
}

func TestPages(t *testing.T) {
	t.Parallel()

	c := newClient(t)

	rec := c.get("/about")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>About this demo</h1>")
	assert.Contains(t, body, "<title>About - Colony Contacts</title>")

	rec = c.get("/pages/show/secret")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.get("/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

package internal_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/colony/internal"
	"github.com/dmitrymomot/colony/pkg/config"
	"github.com/dmitrymomot/colony/pkg/db"
	"github.com/dmitrymomot/colony/pkg/display"
	"github.com/dmitrymomot/colony/pkg/mailer"
	"github.com/dmitrymomot/colony/pkg/session"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, email *mailer.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

var baseViews = fstest.MapFS{
	"index/main.html": {Data: []byte(`home`)},
	"user/edit.html":  {Data: []byte(`<h1>edit {{.id}}</h1>{{if .errors.name}}{{formatError .errors "name"}}{{end}}`)},
	"user/view.html":  {Data: []byte(`profile {{.id}}`)},
	"user/count.html": {Data: []byte(`count={{.count}}`)},
	"blog/list.html":  {Data: []byte(`{{.setup}} list`)},
}

func views(extra map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for k, v := range baseViews {
		fsys[k] = v
	}
	for k, v := range extra {
		fsys[k] = &fstest.MapFile{Data: []byte(v)}
	}
	return fsys
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.SessionType = config.SessionMemory
	cfg.ThrowExceptions = false
	cfg.ExceptionLog = filepath.Join(t.TempDir(), "exceptions.log")
	cfg.SessionPurgeSchedule = ""
	cfg.Metrics = false
	return cfg
}

func withRules(t *testing.T, cfg *config.Config, doc string) {
	t.Helper()
	require.NoError(t, yaml.Unmarshal([]byte(doc), &cfg.Routing))
}

type appOptions struct {
	views map[string]string
	opts  []internal.Option
}

func newApp(t *testing.T, cfg *config.Config, o appOptions) *internal.App {
	t.Helper()

	opts := []internal.Option{
		internal.WithDB(db.None{}),
		internal.WithSessionStore(session.NewMemoryStore(cfg.Timeout())),
		internal.WithRenderer(display.NewFS(views(o.views))),
		internal.WithControllers(controllers()),
	}
	opts = append(opts, o.opts...)

	app, err := internal.New(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	return app
}

func get(app http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func post(app http.Handler, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

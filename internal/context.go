package internal

import (
	"context"
	"log/slog"
	"maps"
	"net/http"
	"strings"

	"github.com/dmitrymomot/colony/pkg/config"
	"github.com/dmitrymomot/colony/pkg/db"
	"github.com/dmitrymomot/colony/pkg/errorbag"
	"github.com/dmitrymomot/colony/pkg/input"
	"github.com/dmitrymomot/colony/pkg/mailer"
	"github.com/dmitrymomot/colony/pkg/route"
	"github.com/dmitrymomot/colony/pkg/session"
)

// View data keys set by the lifecycle.
const (
	DataErrors  = "errors"
	DataInput   = "input"
	DataSession = "session"
	DataBaseURL = "base_url"
	DataConfig  = "config"
	DataRoute   = "route"
)

// Context is the per-request state handed to controllers. It is never shared
// between requests.
type Context struct {
	d      *Dispatcher
	w      http.ResponseWriter
	r      *http.Request
	route  route.Route
	input  input.Values
	sess   *session.Session
	errors *errorbag.Bag
	data   map[string]any
	view   string
	status int
}

// newContext builds the request state in order: input snapshot, session,
// then the error bag, which consumes errors trapped by the previous request.
func (d *Dispatcher) newContext(w http.ResponseWriter, r *http.Request, rt route.Route) (*Context, error) {
	c := &Context{
		d:     d,
		w:     w,
		r:     r,
		route: rt,
		input: input.Filter(r),
		data:  make(map[string]any),
	}

	sess, err := d.sessions.Load(r.Context(), w, d.sessions.Token(r))
	if err != nil {
		return nil, err
	}
	c.sess = sess
	c.errors = errorbag.New(sess, c)
	return c, nil
}

// Context returns the request context.
func (c *Context) Context() context.Context {
	return c.r.Context()
}

// Request returns the underlying request.
func (c *Context) Request() *http.Request {
	return c.r
}

// Header returns the response headers. Headers must be set before the
// handler returns; the body is written by the dispatcher.
func (c *Context) Header() http.Header {
	return c.w.Header()
}

// Route returns the resolved route. The method is filled in with the
// controller default when the URL had none.
func (c *Context) Route() route.Route {
	return c.route
}

// Config returns the application configuration.
func (c *Context) Config() *config.Config {
	return c.d.cfg
}

// Input returns the sanitized request input.
func (c *Context) Input() input.Values {
	return c.input
}

// DB returns the database adapter.
func (c *Context) DB() db.Adapter {
	return c.d.db
}

// Session returns the request's session.
func (c *Context) Session() *session.Session {
	return c.sess
}

// Errors returns the request's error bag.
func (c *Context) Errors() *errorbag.Bag {
	return c.errors
}

// Mailer returns the application mailer.
func (c *Context) Mailer() *mailer.Mailer {
	return c.d.mailer
}

// Logger returns the application logger.
func (c *Context) Logger() *slog.Logger {
	return c.d.logger
}

// BaseURL returns the configured base URL.
func (c *Context) BaseURL() string {
	return c.d.cfg.BaseURL
}

// URL joins path onto the base URL.
func (c *Context) URL(path string) string {
	return joinURL(c.d.cfg.BaseURL, path)
}

// Set stores a value for the view.
func (c *Context) Set(key string, val any) {
	c.data[key] = val
}

// Get returns a value previously stored with Set.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.data[key]
	return v, ok
}

// SetView renders name instead of "{action}/{method}".
func (c *Context) SetView(name string) {
	c.view = name
}

// SetStatus sets the response status for the rendered view.
func (c *Context) SetStatus(code int) {
	c.status = code
}

// Redirect returns the redirect signal for location, relative to the base
// URL unless it is absolute. Handlers must return it.
func (c *Context) Redirect(location string) error {
	return &Redirect{Location: joinURL(c.d.cfg.BaseURL, location), Status: http.StatusFound}
}

// CompleteDispatch persists the session and exposes the collected errors
// to the view.
func (c *Context) CompleteDispatch() error {
	c.data[DataErrors] = c.errors.All()
	return c.d.sessions.Save(c.Context(), c.sess)
}

// viewName returns the view to render.
func (c *Context) viewName() string {
	if c.view != "" {
		return c.view
	}
	return c.route.Action + "/" + c.route.Method
}

// viewData assembles the data bag; values set by the controller win.
func (c *Context) viewData() map[string]any {
	data := c.d.baseData(c.route)
	data[DataInput] = c.input
	data[DataSession] = c.sess.Data
	data[DataErrors] = map[string][]string{}
	maps.Copy(data, c.data)
	return data
}

func joinURL(base, location string) string {
	if strings.Contains(location, "://") || strings.HasPrefix(location, "//") {
		return location
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(location, "/")
}

package internal

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/colony/pkg/config"
	"github.com/dmitrymomot/colony/pkg/db"
	"github.com/dmitrymomot/colony/pkg/display"
	"github.com/dmitrymomot/colony/pkg/logger"
	"github.com/dmitrymomot/colony/pkg/mailer"
	"github.com/dmitrymomot/colony/pkg/metrics"
	"github.com/dmitrymomot/colony/pkg/route"
	"github.com/dmitrymomot/colony/pkg/session"
)

// Special view names.
const (
	NotFoundView = "404"
	ErrorView    = "error"
)

// Dispatcher runs the request lifecycle: route, build the controller,
// invoke its method, persist the session and render the view. Everything it
// holds is read-only after construction.
type Dispatcher struct {
	cfg         *config.Config
	matcher     *route.Matcher
	controllers map[string]ControllerFactory
	sessions    *session.Manager
	db          db.Adapter
	display     display.Renderer
	mailer      *mailer.Mailer
	sink        *logger.ExceptionSink
	logger      *slog.Logger
	now         func() time.Time
	metrics     bool
}

type response struct {
	redirect *Redirect
	body     bytes.Buffer
	status   int
	notFound bool
}

func (r *response) outcome() string {
	switch {
	case r.notFound:
		return metrics.OutcomeNotFound
	case r.redirect != nil:
		return metrics.OutcomeRedirect
	default:
		return metrics.OutcomeOK
	}
}

// Run dispatches one request. It returns an error only when
// throw_exceptions is on; otherwise failures are reported and rendered.
func (d *Dispatcher) Run(w http.ResponseWriter, r *http.Request) error {
	start := time.Now()
	rt := d.matcher.Match(r.URL.RequestURI())

	c, res, err := d.dispatch(w, r, rt)

	outcome := res.outcome()
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
		err = d.fail(w, r, c, rt, err)
	case res.notFound:
		err = d.notFound(w, r, rt)
	default:
		d.write(w, res)
	}

	if d.metrics {
		action := rt.Action
		if _, ok := d.controllers[action]; !ok {
			action = metrics.UnknownAction
		}
		metrics.RecordDispatch(action, outcome, time.Since(start))
	}
	return err
}

func (d *Dispatcher) dispatch(w http.ResponseWriter, r *http.Request, rt route.Route) (c *Context, res *response, err error) {
	res = &response{}

	factory, ok := d.controllers[rt.Action]
	if !ok || factory == nil {
		res.notFound = true
		return nil, res, nil
	}

	defer func() {
		if v := recover(); v != nil {
			if v == http.ErrAbortHandler {
				panic(v)
			}
			err = newPanicError(v)
		}
	}()

	c, err = d.newContext(w, r, rt)
	if err != nil {
		return nil, res, err
	}

	ctrl, err := factory(c)
	if err != nil {
		return c, res, newHandlerError(err)
	}
	if ctrl == nil {
		return c, res, newHandlerError(fmt.Errorf("controller %q: factory returned nil", rt.Action))
	}

	method := rt.Method
	if method == "" {
		method = defaultMethod(ctrl)
	}
	c.route = rt.WithMethod(method)

	fn := ctrl.Methods()[method]
	if fn == nil {
		return c, res, fmt.Errorf("%w: %s/%s", ErrMethodNotFound, rt.Action, method)
	}

	if s, ok := ctrl.(Setupper); ok {
		if err := s.Setup(c); err != nil {
			return c, res, d.interrupt(c, res, err)
		}
	}

	if err := fn(c, rt.Extra); err != nil {
		return c, res, d.interrupt(c, res, err)
	}

	if err := c.CompleteDispatch(); err != nil {
		return c, res, err
	}

	if err := d.display.Render(c.Context(), &res.body, c.viewName(), c.viewData()); err != nil {
		return c, res, err
	}
	res.status = c.status
	return c, res, nil
}

// interrupt turns a redirect signal into a response after saving the
// session. Any other error is a handler failure.
func (d *Dispatcher) interrupt(c *Context, res *response, err error) error {
	rd, ok := AsRedirect(err)
	if !ok {
		return newHandlerError(err)
	}
	if err := d.sessions.Save(c.Context(), c.sess); err != nil {
		return err
	}
	res.redirect = rd
	return nil
}

// notFound answers an unknown action: the 404 view when there is one,
// otherwise ErrRouteNotFound when exceptions are thrown, otherwise a bare 404.
func (d *Dispatcher) notFound(w http.ResponseWriter, r *http.Request, rt route.Route) error {
	if d.display.Has(NotFoundView) {
		var buf bytes.Buffer
		if err := d.display.Render(r.Context(), &buf, NotFoundView, d.baseData(rt)); err != nil {
			return d.fail(w, r, nil, rt, err)
		}
		writeHTML(w, http.StatusNotFound, buf.Bytes())
		return nil
	}

	if d.cfg.ThrowExceptions {
		return d.fail(w, r, nil, rt, fmt.Errorf("%w: %q", ErrRouteNotFound, rt.Action))
	}

	http.Error(w, "404 Not Found", http.StatusNotFound)
	return nil
}

func (d *Dispatcher) write(w http.ResponseWriter, res *response) {
	if rd := res.redirect; rd != nil {
		w.Header().Set("Location", rd.Location)
		w.WriteHeader(rd.Status)
		return
	}

	status := res.status
	if status == 0 {
		status = http.StatusOK
	}
	writeHTML(w, status, res.body.Bytes())
}

// baseData is the view data available even without a controller.
func (d *Dispatcher) baseData(rt route.Route) map[string]any {
	return map[string]any{
		DataConfig:  d.cfg.ViewData(),
		DataBaseURL: d.cfg.BaseURL,
		DataRoute:   rt,
	}
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

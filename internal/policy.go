package internal

import (
	"bytes"
	"context"
	"html"
	"log/slog"
	"maps"
	"net/http"
	"strings"

	"github.com/dmitrymomot/colony/middlewares"
	"github.com/dmitrymomot/colony/pkg/logger"
	"github.com/dmitrymomot/colony/pkg/mailer"
	"github.com/dmitrymomot/colony/pkg/route"
)

const exceptionSubject = "[colony] Uncaught Exception"

// fail applies the exception policy: record, email, then either return the
// error (throw_exceptions) or render the error page. Reporting failures are
// logged and never replace the original error.
func (d *Dispatcher) fail(w http.ResponseWriter, r *http.Request, c *Context, rt route.Route, err error) error {
	derr := &DispatchError{Route: rt, Err: err}
	ctx := context.WithoutCancel(r.Context())

	if d.cfg.LogExceptions || d.cfg.EmailExceptions {
		rep := d.report(r, c, derr)
		if d.cfg.LogExceptions {
			d.logException(ctx, rep, derr)
		}
		if d.cfg.EmailExceptions {
			d.emailException(ctx, rep)
		}
	}

	if d.cfg.ThrowExceptions {
		return derr
	}

	d.renderError(w, r, derr)
	return nil
}

func (d *Dispatcher) report(r *http.Request, c *Context, derr *DispatchError) logger.Report {
	rep := logger.Report{
		Time:    d.now(),
		Message: derr.Err.Error(),
		Route:   derr.Route.String(),
		Stack:   string(derr.Stack()),
		Request: map[string]string{
			"method":      r.Method,
			"uri":         r.RequestURI,
			"host":        r.Host,
			"remote_addr": r.RemoteAddr,
		},
	}
	if ua := r.UserAgent(); ua != "" {
		rep.Request["user_agent"] = ua
	}
	if ref := r.Referer(); ref != "" {
		rep.Request["referer"] = ref
	}
	if id := middlewares.GetRequestID(r.Context()); id != "" {
		rep.Request["request_id"] = id
	}

	if len(r.PostForm) > 0 {
		rep.Post = make(map[string]any, len(r.PostForm))
		for k, v := range r.PostForm {
			if len(v) == 1 {
				rep.Post[k] = v[0]
			} else {
				rep.Post[k] = v
			}
		}
	}
	if c != nil && c.sess != nil {
		rep.Session = maps.Clone(c.sess.Data)
	}
	return rep
}

func (d *Dispatcher) logException(ctx context.Context, rep logger.Report, derr *DispatchError) {
	if d.sink != nil {
		d.sink.Record(ctx, rep)
	}
	d.logger.ErrorContext(ctx, "uncaught exception",
		slog.String("route", rep.Route),
		slog.Any("error", derr.Err),
	)
}

func (d *Dispatcher) emailException(ctx context.Context, rep logger.Report) {
	addr := d.cfg.EmailExceptionsAddress
	if addr == "" {
		d.logger.ErrorContext(ctx, "exception email skipped: email_exceptions_address is empty")
		return
	}
	if d.mailer == nil {
		d.logger.ErrorContext(ctx, "exception email skipped: no mailer configured")
		return
	}

	err := d.mailer.SendRaw(ctx, &mailer.Email{
		From:    addr,
		To:      []string{addr},
		Subject: exceptionSubject,
		Text:    rep.String(),
	})
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to send exception email", slog.Any("error", err))
	}
}

// renderError writes the error view, or a <pre> dump when the view is
// missing or fails.
func (d *Dispatcher) renderError(w http.ResponseWriter, r *http.Request, derr *DispatchError) {
	status := statusFor(derr)

	if d.display.Has(ErrorView) {
		data := d.baseData(derr.Route)
		data["status"] = status
		data["error"] = derr.Err.Error()
		if he := AsHTTPError(derr); he != nil {
			data["error"] = he.Message
			data["title"] = he.Title
		}

		var buf bytes.Buffer
		err := d.display.Render(r.Context(), &buf, ErrorView, data)
		if err == nil {
			writeHTML(w, status, buf.Bytes())
			return
		}
		d.logger.ErrorContext(r.Context(), "failed to render error view", slog.Any("error", err))
	}

	var b strings.Builder
	b.WriteString("<pre>")
	b.WriteString(html.EscapeString(derr.Error()))
	if stack := derr.Stack(); len(stack) > 0 {
		b.WriteString("\n\n")
		b.WriteString(html.EscapeString(string(stack)))
	}
	b.WriteString("</pre>")
	writeHTML(w, status, []byte(b.String()))
}

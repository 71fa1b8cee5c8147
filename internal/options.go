package internal

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/colony/pkg/db"
	"github.com/dmitrymomot/colony/pkg/display"
	"github.com/dmitrymomot/colony/pkg/mailer"
	"github.com/dmitrymomot/colony/pkg/session"
)

// Option configures the application.
type Option func(*App)

// WithLogger sets the application logger.
// If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithController registers the factory serving /{action}/...
//
// Example:
//
//	colony.WithController("user", func(c *colony.Context) (colony.Controller, error) {
//	    return &UserController{repo: users.New(c.DB())}, nil
//	})
func WithController(action string, factory ControllerFactory) Option {
	return func(a *App) {
		if action != "" && factory != nil {
			a.controllers[action] = factory
		}
	}
}

// WithControllers registers several factories at once.
func WithControllers(factories map[string]ControllerFactory) Option {
	return func(a *App) {
		for action, f := range factories {
			WithController(action, f)(a)
		}
	}
}

// WithComponent registers a templ component for the templ display backend.
func WithComponent(view string, fn display.ComponentFunc) Option {
	return func(a *App) {
		if view != "" && fn != nil {
			a.components[view] = fn
		}
	}
}

// WithDB supplies the database adapter instead of opening one from the
// configuration. The caller keeps ownership and closes it.
func WithDB(adapter db.Adapter) Option {
	return func(a *App) {
		a.db = adapter
	}
}

// WithSessionStore supplies the session store instead of building one from
// session_type.
func WithSessionStore(store session.Store) Option {
	return func(a *App) {
		a.store = store
	}
}

// WithRenderer supplies the display backend.
func WithRenderer(r display.Renderer) Option {
	return func(a *App) {
		a.display = r
	}
}

// WithMailSender supplies the transport for exception emails.
func WithMailSender(s mailer.Sender) Option {
	return func(a *App) {
		a.sender = s
	}
}

// WithMiddleware adds net/http middleware after request id and recovery.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithStaticFiles serves subDir of fsys under pattern.
// Directory listings are disabled.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	colony.WithStaticFiles("/assets/", assets, "public")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		sub, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}
		a.staticRoutes = append(a.staticRoutes, staticRoute{handler: staticHandler(sub), pattern: pattern})
	}
}

func staticHandler(fsys fs.FS) http.Handler {
	fileServer := http.FileServerFS(fsys)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		fileServer.ServeHTTP(w, r)
	})
}

// WithErrorHandler answers requests whose dispatch failed with
// throw_exceptions on. The default writes a plain 500.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

// WithHealthChecks configures the probe endpoints and adds readiness checks.
// The db check (and redis, when used for sessions) is always present.
//
// Example:
//
//	colony.WithHealthChecks(
//	    colony.WithReadinessCheck("search", search.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		for _, opt := range opts {
			opt(a.healthConfig)
		}
	}
}

// WithMetrics overrides the metrics setting from the configuration.
func WithMetrics(enabled bool) Option {
	return func(a *App) {
		a.metrics = &enabled
	}
}

// WithClock replaces time.Now for sessions and exception reports.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

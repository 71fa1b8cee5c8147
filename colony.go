package colony

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/colony/internal"
	"github.com/dmitrymomot/colony/pkg/config"
	"github.com/dmitrymomot/colony/pkg/db"
	"github.com/dmitrymomot/colony/pkg/display"
	"github.com/dmitrymomot/colony/pkg/errorbag"
	"github.com/dmitrymomot/colony/pkg/health"
	"github.com/dmitrymomot/colony/pkg/input"
	"github.com/dmitrymomot/colony/pkg/mailer"
	"github.com/dmitrymomot/colony/pkg/route"
	"github.com/dmitrymomot/colony/pkg/session"
)

// Type aliases - public API
type (
	// App wires configuration, backends and the dispatcher.
	App = internal.App

	// Config is the application configuration.
	Config = config.Config

	// Context is the per-request state handed to controller methods.
	Context = internal.Context

	// Controller exposes the methods an action can dispatch to.
	Controller = internal.Controller

	// Methods is a map-backed Controller.
	Methods = internal.Methods

	// MethodFunc is a controller method. Extra is the third path segment or
	// whatever the matching routing rule produced.
	MethodFunc = internal.MethodFunc

	// ControllerFactory builds a controller for one request.
	ControllerFactory = internal.ControllerFactory

	// DefaultMethoder overrides the method used when the URL names none.
	DefaultMethoder = internal.DefaultMethoder

	// Setupper runs before the controller method.
	Setupper = internal.Setupper

	// Route is the resolved action, method and extra.
	Route = route.Route

	// Extra is the route's extra value.
	Extra = route.Extra

	// Input is the sanitized request input.
	Input = input.Values

	// Errors is the request's error bag.
	Errors = errorbag.Bag

	// Session is a user session.
	Session = session.Session

	// SessionStore persists sessions.
	SessionStore = session.Store

	// Renderer renders views.
	Renderer = display.Renderer

	// DB is the database adapter handed to controllers.
	DB = db.Adapter

	// Email is an outgoing message.
	Email = mailer.Email

	// MailSender delivers email.
	MailSender = mailer.Sender

	// ErrorHandler answers requests whose dispatch failed with
	// throw_exceptions on.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// HTTPError lets a handler pick the status and message of the error page.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// Redirect is the signal returned by Context.Redirect.
	Redirect = internal.Redirect

	// HandlerError wraps a controller error or a recovered panic.
	HandlerError = internal.HandlerError

	// DispatchError is returned by the dispatcher with throw_exceptions on.
	DispatchError = internal.DispatchError
)

// Errors
var (
	ErrConfiguration  = internal.ErrConfiguration
	ErrRouteNotFound  = internal.ErrRouteNotFound
	ErrMethodNotFound = internal.ErrMethodNotFound
	ErrStore          = internal.ErrStore
	ErrHandler        = internal.ErrHandler
)

// DefaultMethodName is the method used when neither the URL nor the
// controller names one.
const DefaultMethodName = internal.DefaultMethodName

// New builds the application from cfg.
//
// Example:
//
//	cfg, err := colony.LoadConfig("app/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	app, err := colony.New(ctx, cfg,
//	    colony.WithLogger(log),
//	    colony.WithController("user", colony.Static(controllers.User{})),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = app.Run()
func New(ctx context.Context, cfg *Config, opts ...Option) (*App, error) {
	return internal.New(ctx, cfg, opts...)
}

// LoadConfig reads a YAML configuration file and applies environment
// overrides. With an empty path only defaults and environment are used.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// Static returns a factory that hands out the same controller every request.
func Static(ctrl Controller) ControllerFactory {
	return internal.Static(ctrl)
}

// App options

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithController registers the controller factory for action.
func WithController(action string, factory ControllerFactory) Option {
	return internal.WithController(action, factory)
}

// WithControllers registers several controller factories keyed by action.
func WithControllers(factories map[string]ControllerFactory) Option {
	return internal.WithControllers(factories)
}

// WithComponent registers a templ component for the templ display backend.
func WithComponent(view string, fn display.ComponentFunc) Option {
	return internal.WithComponent(view, fn)
}

// WithDB uses adapter instead of opening one from the configuration.
func WithDB(adapter DB) Option {
	return internal.WithDB(adapter)
}

// WithSessionStore uses store instead of the one named by session_type.
func WithSessionStore(store SessionStore) Option {
	return internal.WithSessionStore(store)
}

// WithRenderer uses r instead of the configured display backend.
func WithRenderer(r Renderer) Option {
	return internal.WithRenderer(r)
}

// WithMailSender sets the sender used by Context.Mailer and exception email.
func WithMailSender(s MailSender) Option {
	return internal.WithMailSender(s)
}

// WithMiddleware adds net/http middleware in front of the dispatcher.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return internal.WithMiddleware(mw...)
}

// WithStaticFiles serves subDir of fsys under pattern.
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler answers requests whose dispatch returned an error.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithHealthChecks configures the probe endpoints.
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithMetrics overrides the metrics setting from the configuration.
func WithMetrics(enabled bool) Option {
	return internal.WithMetrics(enabled)
}

// WithClock replaces time.Now for sessions and exception reports.
func WithClock(now func() time.Time) Option {
	return internal.WithClock(now)
}

// Health options

// WithLivenessPath sets a custom liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Address sets the listen address, overriding the configured addr.
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the logger for server lifecycle messages.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the graceful shutdown deadline.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn before the server starts listening.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs fn during graceful shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context; cancelling it stops the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// HTTP errors

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// WithTitle sets the error page title.
func WithTitle(title string) HTTPErrorOption {
	return internal.WithTitle(title)
}

// WithError attaches the underlying error for logging.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

// ErrBadRequest returns a 400 HTTPError.
func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

// ErrForbidden returns a 403 HTTPError.
func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrForbidden(message, opts...)
}

// ErrNotFound returns a 404 HTTPError.
func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

// ErrUnprocessable returns a 422 HTTPError.
func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnprocessable(message, opts...)
}

package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/colony/middlewares"
	"github.com/dmitrymomot/colony/pkg/config"
	"github.com/dmitrymomot/colony/pkg/db"
	"github.com/dmitrymomot/colony/pkg/display"
	"github.com/dmitrymomot/colony/pkg/health"
	"github.com/dmitrymomot/colony/pkg/logger"
	"github.com/dmitrymomot/colony/pkg/mailer"
	"github.com/dmitrymomot/colony/pkg/mailer/resend"
	"github.com/dmitrymomot/colony/pkg/metrics"
	"github.com/dmitrymomot/colony/pkg/redis"
	"github.com/dmitrymomot/colony/pkg/route"
	"github.com/dmitrymomot/colony/pkg/session"
)

// Default server timeouts.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
	sentryFlushTimeout       = 2 * time.Second
)

// ErrorHandler answers a request whose dispatch returned an error, which
// only happens with throw_exceptions on.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// defaultErrorHandler answers with the status the error carries: an
// HTTPError code, 404 for an unknown action, 500 otherwise.
func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status := statusFor(err)
	http.Error(w, http.StatusText(status), status)
}

// App wires configuration, backends and the dispatcher behind a chi router.
// It is immutable after New.
type App struct {
	cfg          *config.Config
	router       chi.Router
	logger       *slog.Logger
	controllers  map[string]ControllerFactory
	components   map[string]display.ComponentFunc
	db           db.Adapter
	store        session.Store
	sessions     *session.Manager
	display      display.Renderer
	sender       mailer.Sender
	dispatcher   *Dispatcher
	errorHandler ErrorHandler
	healthConfig *healthConfig
	now          func() time.Time
	metrics      *bool

	middlewares   []func(http.Handler) http.Handler
	staticRoutes  []staticRoute
	startupHooks  []func(context.Context) error
	shutdownHooks []func(context.Context) error
}

type staticRoute struct {
	handler http.Handler
	pattern string
}

// New builds the application from cfg. Backends not supplied through
// options are opened from the configuration. On error everything opened so
// far is closed again.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.Join(ErrConfiguration, errors.New("nil configuration"))
	}

	a := &App{
		cfg:          cfg,
		router:       chi.NewRouter(),
		logger:       logger.NewNope(),
		controllers:  make(map[string]ControllerFactory),
		components:   make(map[string]display.ComponentFunc),
		errorHandler: defaultErrorHandler,
		healthConfig: newHealthConfig(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.build(ctx); err != nil {
		_ = a.Close(context.WithoutCancel(ctx))
		return nil, err
	}

	a.setupRoutes()
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	rules, err := a.cfg.Rules()
	if err != nil {
		return err
	}

	if err := a.openDB(ctx); err != nil {
		return err
	}
	if err := a.openSessions(ctx); err != nil {
		return err
	}

	if a.display == nil {
		r, err := display.Open(display.Config{Backend: a.cfg.DisplayBackend, ViewsDir: a.cfg.ViewsDir}, a.components)
		if err != nil {
			return errors.Join(ErrConfiguration, err)
		}
		a.display = r
	}

	if a.sender == nil {
		if a.cfg.Resend.APIKey != "" {
			a.sender = resend.New(a.cfg.Resend)
		} else {
			a.sender = mailer.NewLogSender(a.logger)
		}
	}

	var sink *logger.ExceptionSink
	if a.cfg.LogExceptions && a.cfg.ExceptionLog != "" {
		sink, err = logger.NewExceptionSink(a.cfg.ExceptionLog)
		if err != nil {
			a.logger.WarnContext(ctx, "exception log disabled", slog.Any("error", err))
		} else {
			a.onShutdown(func(context.Context) error { return sink.Close() })
		}
	}

	if a.metricsEnabled() {
		metrics.Register()
	}
	a.onShutdown(func(context.Context) error {
		logger.FlushSentry(sentryFlushTimeout)
		return nil
	})

	a.dispatcher = &Dispatcher{
		cfg:         a.cfg,
		matcher:     route.NewMatcher(a.cfg.BaseURL, a.cfg.EntryPoint, a.cfg.DefaultAction, rules),
		controllers: a.controllers,
		sessions:    a.sessions,
		db:          a.db,
		display:     a.display,
		mailer:      mailer.New(a.sender, a.cfg.Mailer),
		sink:        sink,
		logger:      a.logger,
		now:         a.now,
		metrics:     a.metricsEnabled(),
	}
	return nil
}

func (a *App) openDB(ctx context.Context) error {
	if a.db == nil {
		adapter, err := db.Open(ctx, a.cfg.Database)
		if err != nil {
			return err
		}
		a.db = adapter
		a.onShutdown(db.Shutdown(adapter))
	}
	a.healthConfig.checks["db"] = db.Healthcheck(a.db)

	if a.store == nil && a.cfg.SessionType == config.SessionDB {
		if err := db.Migrate(ctx, a.db, db.Migrations(), a.cfg.Database.MigrationsTable, a.logger); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) openSessions(ctx context.Context) error {
	timeout := a.cfg.Timeout()

	if a.store == nil {
		switch a.cfg.SessionType {
		case config.SessionRedis:
			client, err := redis.Open(ctx, a.cfg.Redis)
			if err != nil {
				return err
			}
			a.onShutdown(redis.Shutdown(client))
			a.healthConfig.checks["redis"] = redis.Healthcheck(client)
			a.store = session.NewRedisStore(client, timeout)
		case config.SessionMemory:
			a.store = session.NewMemoryStore(timeout)
		default:
			a.store = session.NewDBStore(a.db, session.DefaultTable)
		}
	}

	opts := []session.Option{
		session.WithTimeout(timeout),
		session.WithDomain(a.cfg.SessionDomain),
		session.WithPath(a.cfg.SessionPath),
		session.WithSecure(a.cfg.SessionSecure),
		session.WithLogger(a.logger),
		session.WithClock(a.now),
	}
	if a.metricsEnabled() {
		opts = append(opts, session.WithOnPurge(metrics.RecordSessionsPurged))
	}
	a.sessions = session.NewManager(a.store, opts...)

	if a.cfg.SessionPurgeSchedule != "" {
		j, err := session.NewJanitor(a.sessions, a.cfg.SessionPurgeSchedule, a.logger)
		if err != nil {
			return errors.Join(ErrConfiguration, err)
		}
		a.startupHooks = append(a.startupHooks, j.Start)
		a.onShutdown(j.Stop)
	}
	return nil
}

// onShutdown registers a hook. Hooks run in reverse registration order so
// that dependents close before what they depend on.
func (a *App) onShutdown(fn func(context.Context) error) {
	a.shutdownHooks = append([]func(context.Context) error{fn}, a.shutdownHooks...)
}

func (a *App) metricsEnabled() bool {
	if a.metrics != nil {
		return *a.metrics
	}
	return a.cfg.Metrics
}

// setupRoutes mounts middleware, probes, metrics, static files and the
// dispatcher catch-all.
func (a *App) setupRoutes() {
	a.router.Use(
		middlewares.RequestID(),
		middlewares.Recover(middlewares.WithRecoverLogger(a.logger)),
	)
	for _, mw := range a.middlewares {
		a.router.Use(mw)
	}

	a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
	a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))

	if a.metricsEnabled() {
		a.router.Handle("/metrics", metrics.Handler())
	}

	if a.cfg.StaticDir != "" {
		a.staticRoutes = append(a.staticRoutes, staticRoute{
			pattern: "/static/",
			handler: staticHandler(os.DirFS(a.cfg.StaticDir)),
		})
	}
	for _, sr := range a.staticRoutes {
		a.router.Mount(sr.pattern, http.StripPrefix(sr.pattern, sr.handler))
	}

	a.router.Handle("/*", http.HandlerFunc(a.serveDispatch))
}

func (a *App) serveDispatch(w http.ResponseWriter, r *http.Request) {
	if err := a.dispatcher.Run(w, r); err != nil {
		a.errorHandler(w, r, err)
	}
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Router returns the underlying chi router.
func (a *App) Router() chi.Router {
	return a.router
}

// Dispatcher returns the request dispatcher.
func (a *App) Dispatcher() *Dispatcher {
	return a.dispatcher
}

// Config returns the configuration the app was built with.
func (a *App) Config() *config.Config {
	return a.cfg
}

// DB returns the database adapter.
func (a *App) DB() db.Adapter {
	return a.db
}

// Sessions returns the session manager.
func (a *App) Sessions() *session.Manager {
	return a.sessions
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Start runs the startup hooks, such as the session janitor.
func (a *App) Start(ctx context.Context) error {
	for _, hook := range a.startupHooks {
		if err := hook(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close runs the shutdown hooks and joins their errors.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for _, hook := range a.shutdownHooks {
		if err := hook(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.shutdownHooks = nil
	return errors.Join(errs...)
}

// Run serves HTTP on the configured address until SIGINT or SIGTERM.
func (a *App) Run(opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.address == "" {
		cfg.address = a.cfg.Addr
	}
	if cfg.logger == nil {
		cfg.logger = a.logger
	}

	return runServer(runtimeConfig{
		handler:         a,
		address:         cfg.address,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    append([]func(context.Context) error{a.Start}, cfg.startupHooks...),
		shutdownHooks:   append(cfg.shutdownHooks, a.Close),
		baseCtx:         cfg.baseCtx,
	})
}

package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Default session configuration.
const (
	DefaultCookieName = "session"
	DefaultTimeout    = time.Hour
)

// Manager handles the session lifecycle and the session cookie.
// It is safe for concurrent use; all per-request state lives in *Session.
type Manager struct {
	store      Store
	logger     *slog.Logger
	now        func() time.Time
	onPurge    func(n int64)
	cookieName string
	domain     string
	path       string
	timeout    time.Duration
	sameSite   http.SameSite
	secure     bool
}

// Option configures the Manager.
type Option func(*Manager)

// NewManager creates a Manager over store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
		cookieName: DefaultCookieName,
		path:       "/",
		timeout:    DefaultTimeout,
		sameSite:   http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithTimeout sets the session lifetime. It drives both the cookie
// expiration and the purge cutoff.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.cookieName = name
		}
	}
}

// WithDomain sets the session cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.domain = domain
	}
}

// WithPath sets the session cookie path.
func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithSecure sets the session cookie Secure flag.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithSameSite sets the session cookie SameSite attribute.
func WithSameSite(sameSite http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = sameSite
	}
}

// WithLogger sets the logger for session events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock replaces time.Now. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithOnPurge registers a callback receiving the number of purged sessions.
func WithOnPurge(fn func(n int64)) Option {
	return func(m *Manager) {
		m.onPurge = fn
	}
}

// CookieName returns the configured cookie name.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Timeout returns the configured session lifetime.
func (m *Manager) Timeout() time.Duration {
	return m.timeout
}

// Store returns the underlying session store.
func (m *Manager) Store() Store {
	return m.store
}

// Token returns the session token presented by the request, if any.
func (m *Manager) Token(r *http.Request) string {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// Load returns the session identified by token and refreshes its cookie.
// A missing token, an unknown id or an expired session yields a new session.
// Storage failures are returned wrapped with ErrStore.
func (m *Manager) Load(ctx context.Context, w http.ResponseWriter, token string) (*Session, error) {
	if token == "" {
		return m.New(ctx, w)
	}

	sess, err := m.store.Get(ctx, token)
	switch {
	case errors.Is(err, ErrNotFound):
		return m.New(ctx, w)
	case errors.Is(err, ErrCorruptData):
		m.logger.WarnContext(ctx, "discarding corrupt session", slog.String("session_id", token), slog.Any("error", err))
		return m.New(ctx, w)
	case err != nil:
		return nil, err
	}

	if sess.Expired(m.now(), m.timeout) {
		return m.New(ctx, w)
	}

	m.setCookie(w, sess.ID)
	return sess, nil
}

// New creates a session with a fresh id and empty data, persists it and
// sets the cookie.
func (m *Manager) New(ctx context.Context, w http.ResponseWriter) (*Session, error) {
	now := m.now()
	sess := New(NewID(now), now)

	if err := m.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	m.setCookie(w, sess.ID)
	return sess, nil
}

// Save persists the session data with the current time, then removes
// sessions older than the timeout. A purge failure is logged, not returned.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	now := m.now()
	sess.UpdatedAt = now

	if err := m.store.Update(ctx, sess); err != nil {
		return err
	}

	m.Purge(ctx)
	return nil
}

// Purge removes sessions older than the timeout.
func (m *Manager) Purge(ctx context.Context) int64 {
	n, err := m.store.Purge(ctx, m.now().Add(-m.timeout))
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to purge expired sessions", slog.Any("error", err))
		return 0
	}
	if n > 0 {
		m.logger.DebugContext(ctx, "purged expired sessions", slog.Int64("count", n))
		if m.onPurge != nil {
			m.onPurge(n)
		}
	}
	return n
}

// Destroy deletes the session and expires its cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if err := m.store.Delete(ctx, sess.ID); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   -1,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: m.sameSite,
	})
	return nil
}

func (m *Manager) setCookie(w http.ResponseWriter, id string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Path:     m.path,
		Domain:   m.domain,
		Expires:  m.now().Add(m.timeout),
		MaxAge:   int(m.timeout / time.Second),
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: m.sameSite,
	})
}

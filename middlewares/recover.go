package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/dmitrymomot/colony/pkg/logger"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// PanicHandler writes the response for a recovered panic.
type PanicHandler func(w http.ResponseWriter, r *http.Request, pe *PanicError)

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	Logger            *slog.Logger
	Handler           PanicHandler
	StackSize         int
	DisablePrintStack bool
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack disables stack capture.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// WithRecoverLogger sets the logger that records panics.
func WithRecoverLogger(l *slog.Logger) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.Logger = l
	}
}

// WithRecoverHandler replaces the default 500 response.
func WithRecoverHandler(h PanicHandler) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.Handler = h
	}
}

// Recover turns panics that escape the dispatcher into a logged PanicError
// and a 500 response. http.ErrAbortHandler is re-raised.
func Recover(opts ...RecoverOption) func(http.Handler) http.Handler {
	cfg := &RecoverConfig{
		Logger:    logger.NewNope(),
		StackSize: DefaultStackSize,
		Handler: func(w http.ResponseWriter, _ *http.Request, _ *PanicError) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}

				pe := &PanicError{Value: v}
				attrs := []any{slog.Any("panic", v)}
				if !cfg.DisablePrintStack {
					buf := make([]byte, cfg.StackSize)
					pe.Stack = buf[:runtime.Stack(buf, false)]
					attrs = append(attrs, slog.String("stack", string(pe.Stack)))
				}

				cfg.Logger.ErrorContext(r.Context(), "panic recovered", attrs...)
				cfg.Handler(w, r, pe)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

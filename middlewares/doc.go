// Package middlewares provides net/http middleware for the application router.
//
// RequestID assigns every request an id (reused from X-Request-ID when the
// client sent one) and RequestIDExtractor puts it on every log record:
//
//	log := logger.New(cfg, middlewares.RequestIDExtractor())
//	r := chi.NewRouter()
//	r.Use(
//	    middlewares.RequestID(),
//	    middlewares.Recover(middlewares.WithRecoverLogger(log)),
//	)
//
// Recover is the last line of defense for panics outside the dispatcher; the
// dispatcher recovers controller panics itself and applies the exception
// policy.
package middlewares

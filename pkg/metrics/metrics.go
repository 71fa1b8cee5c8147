// Package metrics holds the Prometheus collectors for dispatch outcomes and
// session housekeeping.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "colony"

// Dispatch outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRedirect = "redirect"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// UnknownAction labels requests whose action has no controller, which keeps
// the label set bounded.
const UnknownAction = "unknown"

var (
	dispatchCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Count of dispatched requests by action and outcome.",
		},
		[]string{"action", "outcome"},
	)
	dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Dispatch latency from routing to the last byte written.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"action"},
	)
	sessionsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_purged_total",
			Help:      "Count of expired sessions removed from the store.",
		},
	)
)

var registerMetrics sync.Once

// Register adds all collectors to the default registry. Safe to call more
// than once.
func Register() {
	registerMetrics.Do(func() {
		prometheus.MustRegister(dispatchCounter, dispatchDuration, sessionsPurged)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordDispatch records one dispatch.
func RecordDispatch(action, outcome string, elapsed time.Duration) {
	if action == "" {
		action = UnknownAction
	}
	dispatchCounter.WithLabelValues(action, outcome).Inc()
	dispatchDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// RecordSessionsPurged adds n purged sessions.
func RecordSessionsPurged(n int64) {
	if n > 0 {
		sessionsPurged.Add(float64(n))
	}
}

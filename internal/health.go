package internal

import "github.com/dmitrymomot/colony/pkg/health"

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

func newHealthConfig() *healthConfig {
	return &healthConfig{
		checks:        make(health.Checks),
		livenessPath:  defaultLivenessPath,
		readinessPath: defaultReadinessPath,
	}
}

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if name != "" && fn != nil {
			c.checks[name] = fn
		}
	}
}

// Package health serves liveness and readiness probes.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "db":    db.Healthcheck(adapter),
//	    "redis": redis.Healthcheck(client),
//	}, health.WithLogger(log)))
//
// Checks run in parallel under one timeout (5s by default). Responses are
// plain text ("OK" or "Service Unavailable") unless the client asks for JSON
// with ?format=json or an Accept header:
//
//	{"status":"unhealthy","checks":{"db":{"status":"healthy"},"redis":{"status":"unhealthy","error":"..."}}}
package health

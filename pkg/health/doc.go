// Package health serves liveness and readiness probes.
//
// Readiness runs named checks concurrently under one deadline:
//
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"redis":    redis.Healthcheck(client),
//		"postgres": db.Healthcheck(pool),
//	}, health.WithLogger(log)))
//
// Responses are plain text unless the client sends "Accept: application/json"
// or ?format=json.
package health

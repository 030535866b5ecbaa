// Package health serves the liveness and readiness probes of the y10n
// server.
//
// Readiness runs named checks concurrently under a shared timeout. The
// server registers one check per dependency, e.g. that translations are
// loaded and that Postgres and Redis answer:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"translations": storeCheck,
//		"redis":        redis.Healthcheck(client),
//	}, health.WithTimeout(3*time.Second)))
//
// Probes answer plain text by default. Send "Accept: application/json" or
// "?format=json" for a per-check report.
package health

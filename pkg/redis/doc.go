// Package redis opens the Redis client shared by the translation cache.
//
// [Open] parses a redis:// or rediss:// URL, applies pool settings and
// pings the server with a linear backoff until it answers or the retry
// budget runs out:
//
//	client, err := redis.Open(ctx, cfg.RedisURL, redis.WithPoolSize(20))
//	if err != nil {
//		return err
//	}
//	trees := cache.NewRedis[l10n.Value](client, l10n.ValueMarshaler{})
//
// [Healthcheck] plugs into the readiness probe and [Shutdown] into the
// server's shutdown hooks.
package redis

// Package redis opens the go-redis client used by the Redis session store.
//
//	client, err := redis.Open(ctx, redis.Config{URL: "redis://localhost:6379/0"})
//	store := session.NewRedisStore(client, time.Hour)
//
// Healthcheck and Shutdown plug into the readiness handler and the
// application's shutdown hooks.
package redis

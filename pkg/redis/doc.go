// Package redis opens go-redis clients for the Redis-backed state store.
//
// Open parses a redis:// or rediss:// URL, applies pool and timeout options and
// retries the initial PING with a linear backoff. Healthcheck and Shutdown
// adapt the client to the server's readiness checks and shutdown hooks.
package redis

package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Open connects to the Redis server at url and verifies the connection with PING.
// Both redis:// and rediss:// (TLS) URLs are accepted.
//
//	client, err := redis.Open(ctx, cfg.State.RedisURL, redis.WithLogger(log))
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}
	redisOpts.PoolSize = o.poolSize
	redisOpts.MinIdleConns = o.minIdleConns
	redisOpts.DialTimeout = o.dialTimeout
	redisOpts.ReadTimeout = o.ioTimeout
	redisOpts.WriteTimeout = o.ioTimeout

	attempts := max(o.retryAttempts, 1)
	var lastErr error
	for i := range attempts {
		if i > 0 {
			if err := wait(ctx, time.Duration(i)*o.retryInterval); err != nil {
				return nil, errors.Join(ErrConnectionFailed, err)
			}
		}

		client := redis.NewClient(redisOpts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		o.logger.WarnContext(ctx, "redis connection attempt failed",
			slog.Int("attempt", i+1),
			slog.Int("max_attempts", attempts),
			slog.String("error", lastErr.Error()),
		)
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

// Healthcheck returns a readiness check that pings the server.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown returns a shutdown hook that closes the client.
func Shutdown(client io.Closer) func(context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package redis

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/thirdparty/pkg/logger"
)

// Option configures a Redis connection.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	poolSize      int
	minIdleConns  int
	retryAttempts int
	retryInterval time.Duration
	dialTimeout   time.Duration
	ioTimeout     time.Duration
}

func defaultOptions() *options {
	return &options{
		logger:        logger.NewNope(),
		poolSize:      10,
		minIdleConns:  2,
		retryAttempts: 3,
		retryInterval: 2 * time.Second,
		dialTimeout:   5 * time.Second,
		ioTimeout:     3 * time.Second,
	}
}

// WithPoolSize sets the maximum number of connections in the pool.
// Default: 10
func WithPoolSize(n int) Option {
	return func(o *options) {
		o.poolSize = n
	}
}

// WithMinIdleConns sets the minimum number of idle connections kept open.
// Default: 2
func WithMinIdleConns(n int) Option {
	return func(o *options) {
		o.minIdleConns = n
	}
}

// WithRetry configures how often Open pings before giving up.
// The wait before attempt i+1 is i*interval.
// Default: 3 attempts, 2 seconds.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(o *options) {
		o.retryAttempts = attempts
		o.retryInterval = interval
	}
}

// WithTimeouts sets the dial timeout and the read/write timeout.
// Default: 5 seconds and 3 seconds.
func WithTimeouts(dial, io time.Duration) Option {
	return func(o *options) {
		o.dialTimeout = dial
		o.ioTimeout = io
	}
}

// WithLogger sets the logger used to report failed connection attempts.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

package state

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/thirdparty/pkg/logger"
)

// DefaultTTL is how long a state lives when Save gets no TTL.
const DefaultTTL = 10 * time.Minute

// Option configures a store. Options that do not apply to a store are ignored.
type Option func(*options)

type options struct {
	logger          *slog.Logger
	prefix          string
	table           string
	defaultTTL      time.Duration
	cleanupInterval time.Duration
}

func defaultOptions() *options {
	return &options{
		logger:          logger.NewNope(),
		prefix:          "oauth_state",
		table:           "oauth_states",
		defaultTTL:      DefaultTTL,
		cleanupInterval: time.Minute,
	}
}

func newOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDefaultTTL sets the TTL used when Save is called without one.
// Default: 10 minutes.
func WithDefaultTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.defaultTTL = d
		}
	}
}

// WithCleanupInterval sets how often Memory and Postgres purge expired states.
// Zero disables the background cleanup. Default: 1 minute.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) {
		o.cleanupInterval = d
	}
}

// WithPrefix sets the Redis key prefix. Keys are stored as "{prefix}:{state}".
// Default: "oauth_state".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithTable sets the Postgres table name. Default: "oauth_states".
// The bundled migrations only create the default table.
func WithTable(table string) Option {
	return func(o *options) {
		if table != "" {
			o.table = table
		}
	}
}

// WithLogger sets the logger background cleanup failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

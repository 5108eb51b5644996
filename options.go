package thirdparty

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/thirdparty/pkg/oauth"
	"github.com/dmitrymomot/thirdparty/pkg/state"
)

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithProviders registers providers under their Name. A later provider with
// the same name replaces an earlier one. Nil providers are ignored.
func WithProviders(providers ...oauth.Flow) Option {
	return func(a *Authenticator) {
		for _, p := range providers {
			if p != nil {
				a.providers[p.Name()] = p
			}
		}
	}
}

// WithStateStore sets where state tokens are kept between Begin and Complete.
// The Authenticator does not close a store passed here.
// Defaults to an in-memory store owned by the Authenticator.
func WithStateStore(s state.Store) Option {
	return func(a *Authenticator) {
		if s != nil {
			a.store = s
		}
	}
}

// WithStateTTL sets how long a login may take between Begin and Complete.
// Defaults to state.DefaultTTL.
func WithStateTTL(d time.Duration) Option {
	return func(a *Authenticator) {
		if d > 0 {
			a.stateTTL = d
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Authenticator) {
		if l != nil {
			a.logger = l
		}
	}
}

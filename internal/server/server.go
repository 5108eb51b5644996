// Package server exposes the login flows over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/thirdparty/pkg/cookie"
	"github.com/dmitrymomot/thirdparty/pkg/health"
	"github.com/dmitrymomot/thirdparty/pkg/logger"
)

// Option configures the router.
type Option func(*options)

type options struct {
	logger           *slog.Logger
	checks           health.Checks
	cookies          *cookie.Signer
	allowedRedirects []string
	corsOrigins      []string
	cookieTTL        time.Duration
	requestTimeout   time.Duration
}

// WithLogger sets the logger for access logs and failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithAllowedRedirects sets the post-login redirect allow-list.
func WithAllowedRedirects(urls ...string) Option {
	return func(o *options) {
		o.allowedRedirects = append(o.allowedRedirects, urls...)
	}
}

// WithHealthCheck adds a readiness check.
func WithHealthCheck(name string, check health.CheckFunc) Option {
	return func(o *options) {
		if check != nil {
			o.checks[name] = check
		}
	}
}

// WithStateCookie binds each login to the browser that started it: the state
// is kept in a signed cookie for ttl and must match the callback's state.
func WithStateCookie(signer *cookie.Signer, ttl time.Duration) Option {
	return func(o *options) {
		o.cookies = signer
		o.cookieTTL = ttl
	}
}

// WithCORS allows browser apps on the given origins to call /auth endpoints.
func WithCORS(origins ...string) Option {
	return func(o *options) {
		o.corsOrigins = append(o.corsOrigins, origins...)
	}
}

// WithRequestTimeout bounds every /auth request, including its provider calls.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) {
		o.requestTimeout = d
	}
}

// NewRouter builds the HTTP handler:
//
//	GET /auth/providers
//	GET /auth/{provider}
//	GET /auth/{provider}/callback
//	GET /health/live
//	GET /health/ready
func NewRouter(auth Authenticator, opts ...Option) http.Handler {
	o := &options{logger: logger.NewNope(), checks: health.Checks{}}
	for _, opt := range opts {
		opt(o)
	}

	h := &handlers{
		auth:             auth,
		logger:           o.logger,
		cookies:          o.cookies,
		cookieTTL:        o.cookieTTL,
		allowedRedirects: o.allowedRedirects,
	}

	r := chi.NewRouter()
	r.Use(RequestID, AccessLog(o.logger), Recover(o.logger))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/auth", func(r chi.Router) {
		if len(o.corsOrigins) > 0 {
			r.Use(CORS(o.corsOrigins...))
		}
		if o.requestTimeout > 0 {
			r.Use(Timeout(o.requestTimeout))
		}
		r.Get("/providers", h.providers)
		r.Get("/{provider}", h.begin)
		r.Get("/{provider}/callback", h.callback)
	})

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(o.checks, health.WithLogger(o.logger)))

	return r
}

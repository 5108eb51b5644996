package oauth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/thirdparty/pkg/logger"
)

const defaultHTTPTimeout = 30 * time.Second

// Option configures a Provider.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

func defaultOptions() *options {
	return &options{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     logger.NewNope(),
	}
}

// WithHTTPClient sets a custom HTTP client for provider requests.
// This is useful for testing with httptest servers or injecting
// custom transports (e.g., tracing, proxies).
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithLogger sets the logger that records failures swallowed by
// AccessToken and User. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithUserAgent overrides the User-Agent header on every provider request.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

package oauth

import (
	"context"

	"golang.org/x/oauth2"
)

// Configurable exposes the read side of a client configuration.
type Configurable interface {
	ClientID() string
	ClientSecret() string
	RedirectURL() string
	Scopes() []string
	Scope(key string) (string, error)
	ScopesString() string
	JoinScopes(sep string) string
	OnlyConfig(keys ...string) Params
	WithoutConfig(keys ...string) Params
}

// Service is the uniform contract every OAuth provider satisfies.
// Callers should depend on Service rather than on a concrete provider.
type Service interface {
	Configurable

	// Name returns the provider identifier (e.g., "google", "github").
	Name() string

	// Params returns the provider configuration mapping, including a fresh state.
	Params() Params

	// AuthURL returns the authorization URL to redirect the user to.
	AuthURL() string

	// AccessToken exchanges an authorization code for an access token.
	// Any failure yields an empty string.
	AccessToken(ctx context.Context, code string) string

	// User fetches the profile belonging to the access token.
	// Any failure yields nil.
	User(ctx context.Context, token string) map[string]any
}

// Flow extends Service with the error-returning operations needed to run a
// login flow with caller-managed state.
type Flow interface {
	Service

	// AuthCodeURL returns the authorization URL carrying the given state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for a token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// FetchUser retrieves the profile belonging to the access token.
	FetchUser(ctx context.Context, token string) (map[string]any, error)
}

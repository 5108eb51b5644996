package oauth

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Config parameter keys.
const (
	ParamClientID     = "client_id"
	ParamClientSecret = "client_secret"
	ParamRedirectURI  = "redirect_uri"
	ParamScope        = "scope"
	ParamState        = "state"
	ParamResponseType = "response_type"
	ParamGrantType    = "grant_type"
	ParamCode         = "code"
	ParamAccessToken  = "access_token"
)

// ProviderConfig holds the credentials a provider is constructed with.
// An empty Scopes list selects the provider's default scopes.
type ProviderConfig struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	RedirectURL  string   `yaml:"redirect_url"`
	Scopes       []string `yaml:"scopes"`
}

// Config is an immutable OAuth client configuration.
// The With* methods return modified copies and never touch the receiver.
type Config struct {
	clientID     string
	clientSecret string
	redirectURL  string
	scopes       []string
}

// NewConfig returns a Config holding the given values as-is.
func NewConfig(clientID, clientSecret, redirectURL string, scopes ...string) Config {
	return Config{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		scopes:       slices.Clone(scopes),
	}
}

// ClientID returns the client ID.
func (c Config) ClientID() string {
	return c.clientID
}

// ClientSecret returns the client secret.
func (c Config) ClientSecret() string {
	return c.clientSecret
}

// RedirectURL returns the redirect URL.
func (c Config) RedirectURL() string {
	return c.redirectURL
}

// Scopes returns a copy of the scope list.
func (c Config) Scopes() []string {
	return slices.Clone(c.scopes)
}

// Scope returns the scope stored under key, the scope's position in the list
// written as a canonical decimal number ("0", "1", ...; not "+1" or "01").
// Returns ErrScopeNotFound if there is no such key.
func (c Config) Scope(key string) (string, error) {
	i, err := strconv.Atoi(key)
	if err != nil || strconv.Itoa(i) != key || i < 0 || i >= len(c.scopes) {
		return "", errors.Join(ErrScopeNotFound, fmt.Errorf("scope key %q", key))
	}
	return c.scopes[i], nil
}

// ScopesString joins the scopes with a single space.
func (c Config) ScopesString() string {
	return c.JoinScopes(" ")
}

// JoinScopes joins the scopes with sep.
func (c Config) JoinScopes(sep string) string {
	return strings.Join(c.scopes, sep)
}

// WithClientID returns a copy with the client ID replaced.
func (c Config) WithClientID(clientID string) Config {
	c.scopes = slices.Clone(c.scopes)
	c.clientID = clientID
	return c
}

// WithClientSecret returns a copy with the client secret replaced.
func (c Config) WithClientSecret(clientSecret string) Config {
	c.scopes = slices.Clone(c.scopes)
	c.clientSecret = clientSecret
	return c
}

// WithRedirectURL returns a copy with the redirect URL replaced.
// Leading and trailing slashes are trimmed.
func (c Config) WithRedirectURL(redirectURL string) Config {
	c.scopes = slices.Clone(c.scopes)
	c.redirectURL = strings.Trim(redirectURL, "/")
	return c
}

// WithScopes returns a copy with the scope list replaced.
func (c Config) WithScopes(scopes ...string) Config {
	c.scopes = slices.Clone(scopes)
	return c
}

// Params returns the base configuration mapping:
// client_id, client_secret, redirect_uri, scope and a fresh random state.
func (c Config) Params() Params {
	return c.params(DefaultTokenLength)
}

// OnlyConfig projects Params down to the listed keys.
func (c Config) OnlyConfig(keys ...string) Params {
	return c.Params().Only(keys...)
}

// WithoutConfig projects Params down to every key except the listed ones.
func (c Config) WithoutConfig(keys ...string) Params {
	return c.Params().Without(keys...)
}

func (c Config) params(stateLen int) Params {
	return NewParams(
		Param{Key: ParamClientID, Value: c.clientID},
		Param{Key: ParamClientSecret, Value: c.clientSecret},
		Param{Key: ParamRedirectURI, Value: c.redirectURL},
		Param{Key: ParamScope, Value: c.ScopesString()},
		Param{Key: ParamState, Value: GenerateToken(stateLen)},
	)
}

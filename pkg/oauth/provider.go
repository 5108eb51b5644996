package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// maxResponseSize caps how much of a provider response body is read.
const maxResponseSize = 1 << 20

// Provider implements Flow for any provider described by a Descriptor.
// A Provider is immutable; the With* methods return modified copies.
type Provider struct {
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
	cfg        Config
	desc       Descriptor
}

var _ Flow = (*Provider)(nil)

// New creates a provider from a descriptor and credentials.
// An empty cfg.Scopes selects desc.DefaultScopes.
func New(desc Descriptor, cfg ProviderConfig, opts ...Option) *Provider {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = desc.DefaultScopes
	}

	return &Provider{
		desc:       desc.clone(),
		cfg:        NewConfig(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL, scopes...),
		httpClient: o.httpClient,
		logger:     o.logger,
		userAgent:  o.userAgent,
	}
}

// NewByName creates a provider from the built-in descriptor registered under name.
// Returns ErrUnknownProvider if there is none.
func NewByName(name string, cfg ProviderConfig, opts ...Option) (*Provider, error) {
	desc, ok := LookupDescriptor(name)
	if !ok {
		return nil, errors.Join(ErrUnknownProvider, fmt.Errorf("provider %q", name))
	}
	return New(desc, cfg, opts...), nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.desc.Name
}

// Descriptor returns a copy of the provider descriptor.
func (p *Provider) Descriptor() Descriptor {
	return p.desc.clone()
}

// Config returns the client configuration.
func (p *Provider) Config() Config {
	return p.cfg
}

func (p *Provider) ClientID() string                 { return p.cfg.ClientID() }
func (p *Provider) ClientSecret() string             { return p.cfg.ClientSecret() }
func (p *Provider) RedirectURL() string              { return p.cfg.RedirectURL() }
func (p *Provider) Scopes() []string                 { return p.cfg.Scopes() }
func (p *Provider) Scope(key string) (string, error) { return p.cfg.Scope(key) }
func (p *Provider) ScopesString() string             { return p.cfg.ScopesString() }
func (p *Provider) JoinScopes(sep string) string     { return p.cfg.JoinScopes(sep) }

// WithClientID returns a copy with the client ID replaced.
func (p *Provider) WithClientID(clientID string) *Provider {
	return p.withConfig(p.cfg.WithClientID(clientID))
}

// WithClientSecret returns a copy with the client secret replaced.
func (p *Provider) WithClientSecret(clientSecret string) *Provider {
	return p.withConfig(p.cfg.WithClientSecret(clientSecret))
}

// WithRedirectURL returns a copy with the redirect URL replaced.
// Leading and trailing slashes are trimmed.
func (p *Provider) WithRedirectURL(redirectURL string) *Provider {
	return p.withConfig(p.cfg.WithRedirectURL(redirectURL))
}

// WithScopes returns a copy with the scope list replaced.
func (p *Provider) WithScopes(scopes ...string) *Provider {
	return p.withConfig(p.cfg.WithScopes(scopes...))
}

// Params returns the provider configuration mapping: the base configuration
// with a 15-byte state, response_type=code and, if the provider needs one, grant_type.
func (p *Provider) Params() Params {
	return p.desc.params(p.cfg)
}

// OnlyConfig projects Params down to the listed keys.
func (p *Provider) OnlyConfig(keys ...string) Params {
	return p.Params().Only(keys...)
}

// WithoutConfig projects Params down to every key except the listed ones.
func (p *Provider) WithoutConfig(keys ...string) Params {
	return p.Params().Without(keys...)
}

// AuthURL returns the authorization URL with a freshly generated state.
func (p *Provider) AuthURL() string {
	return p.desc.authURL(p.Params())
}

// AuthCodeURL returns the authorization URL carrying the given state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.desc.authURL(p.Params().Set(ParamState, state))
}

// AccessToken exchanges an authorization code for an access token.
// Failures are logged at debug level and yield an empty string; use Exchange
// to tell them apart.
func (p *Provider) AccessToken(ctx context.Context, code string) string {
	token, err := p.Exchange(ctx, code)
	if err != nil {
		p.logger.DebugContext(ctx, "oauth token exchange failed",
			slog.String("provider", p.Name()),
			slog.Any("error", err),
		)
		return ""
	}
	return token.AccessToken
}

// User fetches the profile belonging to the access token.
// Failures are logged at debug level and yield nil; use FetchUser to tell them apart.
func (p *Provider) User(ctx context.Context, token string) map[string]any {
	user, err := p.FetchUser(ctx, token)
	if err != nil {
		p.logger.DebugContext(ctx, "oauth user fetch failed",
			slog.String("provider", p.Name()),
			slog.Any("error", err),
		)
		return nil
	}
	return user
}

// Exchange posts the authorization code to the token endpoint.
// The full decoded response is available through Token.Extra.
func (p *Provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	req, err := p.desc.newTokenRequest(ctx, p.Params(), code)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, fmt.Errorf("build token request: %w", err))
	}

	body, err := p.do(p.httpClient, req)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Join(ErrDecodeFailed, fmt.Errorf("decode token: %w", err))
	}

	accessToken, _ := raw[ParamAccessToken].(string)
	if accessToken == "" {
		if desc, ok := raw["error"].(string); ok {
			return nil, errors.Join(ErrMissingAccessToken, fmt.Errorf("provider error: %s", desc))
		}
		return nil, ErrMissingAccessToken
	}

	token := &oauth2.Token{AccessToken: accessToken}
	token.TokenType, _ = raw["token_type"].(string)
	token.RefreshToken, _ = raw["refresh_token"].(string)
	if expiresIn, ok := raw["expires_in"].(float64); ok && expiresIn > 0 {
		token.ExpiresIn = int64(expiresIn)
		token.Expiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
	}

	return token.WithExtra(raw), nil
}

// FetchUser retrieves the user-info document for the access token.
func (p *Provider) FetchUser(ctx context.Context, token string) (map[string]any, error) {
	req, err := p.desc.newUserRequest(ctx, token)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, fmt.Errorf("build user request: %w", err))
	}

	client := p.httpClient
	if p.desc.UserAuth == UserAuthBearer {
		client = bearerClient(p.httpClient, token)
	}

	body, err := p.do(client, req)
	if err != nil {
		return nil, err
	}

	var user map[string]any
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, errors.Join(ErrDecodeFailed, fmt.Errorf("decode user: %w", err))
	}
	if user == nil {
		return nil, errors.Join(ErrDecodeFailed, errors.New("decode user: empty document"))
	}

	return user, nil
}

func (p *Provider) do(client *http.Client, req *http.Request) ([]byte, error) {
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Join(ErrRequestFailed, &ResponseError{StatusCode: resp.StatusCode, Body: string(body)})
	}

	return body, nil
}

func (p *Provider) withConfig(cfg Config) *Provider {
	clone := *p
	clone.cfg = cfg
	return &clone
}

// bearerClient returns a copy of base that authorizes every request with token.
func bearerClient(base *http.Client, token string) *http.Client {
	client := *base
	client.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   base.Transport,
	}
	return &client
}

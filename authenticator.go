package thirdparty

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"slices"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrymomot/thirdparty/pkg/logger"
	"github.com/dmitrymomot/thirdparty/pkg/oauth"
	"github.com/dmitrymomot/thirdparty/pkg/state"
)

// Authenticator runs complete login flows across the configured providers and
// verifies the state parameter on every callback.
type Authenticator struct {
	providers map[string]oauth.Flow
	store     state.Store
	logger    *slog.Logger
	stateTTL  time.Duration
	ownsStore bool
}

// Result is the outcome of a completed login.
type Result struct {
	Token      *oauth2.Token  `json:"-"`
	User       map[string]any `json:"user"`
	Provider   string         `json:"provider"`
	RedirectTo string         `json:"redirect_to,omitempty"`
}

// New creates an Authenticator. At least one provider is required.
func New(opts ...Option) (*Authenticator, error) {
	a := &Authenticator{
		providers: make(map[string]oauth.Flow),
		logger:    logger.NewNope(),
		stateTTL:  state.DefaultTTL,
	}
	for _, opt := range opts {
		opt(a)
	}

	if len(a.providers) == 0 {
		return nil, ErrNoProviders
	}
	if a.store == nil {
		a.store = state.NewMemory(state.WithDefaultTTL(a.stateTTL))
		a.ownsStore = true
	}

	return a, nil
}

// NewProviders builds providers from per-name credentials using the built-in
// descriptors. Unknown names return oauth.ErrUnknownProvider.
func NewProviders(configs map[string]oauth.ProviderConfig, opts ...oauth.Option) ([]oauth.Flow, error) {
	names := slices.Sorted(maps.Keys(configs))
	providers := make([]oauth.Flow, 0, len(names))
	for _, name := range names {
		p, err := oauth.NewByName(name, configs[name], opts...)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}

// Providers returns the configured provider names in sorted order.
func (a *Authenticator) Providers() []string {
	return slices.Sorted(maps.Keys(a.providers))
}

// Provider returns the provider registered under name.
func (a *Authenticator) Provider(name string) (oauth.Service, error) {
	p, err := a.flow(name)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Begin starts a login: it issues a state token, remembers it together with
// redirectTo and returns the provider's authorization URL.
func (a *Authenticator) Begin(ctx context.Context, provider, redirectTo string) (string, error) {
	p, err := a.flow(provider)
	if err != nil {
		return "", err
	}
	ctx = WithProviderName(ctx, provider)

	token := oauth.GenerateToken(oauth.StateTokenLength)
	rec := state.Record{Provider: provider, RedirectTo: redirectTo}
	if err := a.store.Save(ctx, token, rec, a.stateTTL); err != nil {
		return "", fmt.Errorf("save state: %w", err)
	}

	a.logger.DebugContext(ctx, "oauth login started", slog.String("redirect_to", redirectTo))
	return p.AuthCodeURL(token), nil
}

// Complete finishes a login from the callback query. The state is consumed
// before the code is exchanged, so a callback can succeed at most once.
func (a *Authenticator) Complete(ctx context.Context, provider string, q url.Values) (*Result, error) {
	p, err := a.flow(provider)
	if err != nil {
		return nil, err
	}
	ctx = WithProviderName(ctx, provider)

	if reason := q.Get("error"); reason != "" {
		if s := q.Get(oauth.ParamState); s != "" {
			_, _ = a.store.Consume(ctx, s)
		}
		desc := q.Get("error_description")
		a.logger.InfoContext(ctx, "oauth login denied",
			slog.String("reason", reason),
			slog.String("description", desc),
		)
		return nil, errors.Join(ErrAuthorizationDenied, fmt.Errorf("%s: %s", reason, desc))
	}

	code := q.Get(oauth.ParamCode)
	if code == "" {
		return nil, ErrMissingCode
	}

	rec, err := a.store.Consume(ctx, q.Get(oauth.ParamState))
	if err != nil {
		if errors.Is(err, state.ErrNotFound) || errors.Is(err, state.ErrEmptyState) {
			return nil, errors.Join(ErrStateMismatch, err)
		}
		return nil, fmt.Errorf("consume state: %w", err)
	}
	if rec.Provider != provider {
		return nil, errors.Join(ErrStateMismatch,
			fmt.Errorf("state issued for %q, callback for %q", rec.Provider, provider))
	}

	token, err := p.Exchange(ctx, code)
	if err != nil {
		a.logger.WarnContext(ctx, "oauth token exchange failed", slog.String("error", err.Error()))
		return nil, errors.Join(ErrProviderFailed, err)
	}

	user, err := p.FetchUser(ctx, token.AccessToken)
	if err != nil {
		a.logger.WarnContext(ctx, "oauth user fetch failed", slog.String("error", err.Error()))
		return nil, errors.Join(ErrProviderFailed, err)
	}

	a.logger.InfoContext(ctx, "oauth login completed")
	return &Result{
		Provider:   provider,
		Token:      token,
		User:       user,
		RedirectTo: rec.RedirectTo,
	}, nil
}

// Close releases the state store if the Authenticator created it.
func (a *Authenticator) Close() error {
	if a.ownsStore {
		return a.store.Close()
	}
	return nil
}

func (a *Authenticator) flow(name string) (oauth.Flow, error) {
	p, ok := a.providers[name]
	if !ok {
		return nil, errors.Join(ErrProviderNotFound, fmt.Errorf("provider %q", name))
	}
	return p, nil
}

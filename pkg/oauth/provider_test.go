package oauth_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/thirdparty/pkg/oauth"
)

var (
	_ oauth.Service = (*oauth.Provider)(nil)
	_ oauth.Flow    = (*oauth.Provider)(nil)
)

var stateRe = regexp.MustCompile(`^[0-9a-f]{30}$`)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testConfig() oauth.ProviderConfig {
	return oauth.ProviderConfig{
		ClientID:     "id1",
		ClientSecret: "secret1",
		RedirectURL:  "http://app/cb",
	}
}

func TestProviders_Descriptors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		scopes   []string
		authURL  string
		tokenURL string
		userAuth oauth.UserAuthStyle
		grant    bool
	}{
		{
			name:     oauth.FacebookProviderName,
			scopes:   []string{"email"},
			authURL:  "https://www.facebook.com/v12.0/dialog/oauth",
			tokenURL: "https://graph.facebook.com/v12.0/oauth/access_token",
			userAuth: oauth.UserAuthQuery,
			grant:    true,
		},
		{
			name:     oauth.GitHubProviderName,
			scopes:   []string{"user"},
			authURL:  "https://github.com/login/oauth/authorize",
			tokenURL: "https://github.com/login/oauth/access_token",
			userAuth: oauth.UserAuthBearer,
		},
		{
			name:     oauth.GoogleProviderName,
			scopes:   []string{"openid", "profile", "email"},
			authURL:  "https://accounts.google.com/o/oauth2/auth",
			tokenURL: "https://www.googleapis.com/oauth2/v4/token",
			userAuth: oauth.UserAuthQuery,
			grant:    true,
		},
		{
			name:     oauth.LinkedInProviderName,
			scopes:   []string{"r_liteprofile", "r_emailaddress"},
			authURL:  "https://www.linkedin.com/oauth/v2/authorization",
			tokenURL: "https://www.linkedin.com/oauth/v2/accessToken",
			userAuth: oauth.UserAuthBearer,
			grant:    true,
		},
	}

	require.Len(t, oauth.Descriptors(), len(tests))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := oauth.NewByName(tt.name, testConfig())
			require.NoError(t, err)
			require.Equal(t, tt.name, p.Name())
			require.Equal(t, tt.scopes, p.Scopes(), "default scopes applied")

			d := p.Descriptor()
			require.Equal(t, tt.authURL, d.Endpoint.AuthURL)
			require.Equal(t, tt.tokenURL, d.Endpoint.TokenURL)
			require.Equal(t, tt.userAuth, d.UserAuth)

			params := p.Params()
			rt, _ := params.Get(oauth.ParamResponseType)
			require.Equal(t, "code", rt)
			state, _ := params.Get(oauth.ParamState)
			require.Regexp(t, stateRe, state)

			grant, ok := params.Get(oauth.ParamGrantType)
			require.Equal(t, tt.grant, ok)
			if tt.grant {
				require.Equal(t, oauth.GrantTypeAuthorizationCode, grant)
			}
		})
	}
}

func TestNewByName_Unknown(t *testing.T) {
	t.Parallel()
	p, err := oauth.NewByName("myspace", testConfig())
	require.ErrorIs(t, err, oauth.ErrUnknownProvider)
	require.Nil(t, p)
}

func TestProvider_CustomScopes(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Scopes = []string{"repo", "read:org"}
	p := oauth.NewGitHub(cfg)
	require.Equal(t, []string{"repo", "read:org"}, p.Scopes())
	require.Equal(t, "repo read:org", p.ScopesString())
}

func TestProvider_WithMethods(t *testing.T) {
	t.Parallel()

	orig := oauth.NewGoogle(testConfig())
	changed := orig.WithClientID("id2").WithRedirectURL("http://other/cb/").WithScopes("email")

	require.Equal(t, "id1", orig.ClientID())
	require.Equal(t, "http://app/cb", orig.RedirectURL())
	require.Equal(t, oauth.GoogleDefaultScopes(), orig.Scopes())

	require.Equal(t, "id2", changed.ClientID())
	require.Equal(t, "http://other/cb", changed.RedirectURL())
	require.Equal(t, []string{"email"}, changed.Scopes())
	require.Equal(t, oauth.GoogleProviderName, changed.Name())
}

func TestGitHubProvider_AuthURL(t *testing.T) {
	t.Parallel()

	p := oauth.NewGitHub(testConfig())
	raw := p.AuthURL()

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "github.com", u.Host)
	require.Equal(t, "/login/oauth/authorize", u.Path)

	require.Contains(t, raw, "client_id=id1")
	require.Contains(t, raw, "redirect_uri=http%3A%2F%2Fapp%2Fcb")
	require.Contains(t, raw, "scope=user")
	require.Contains(t, raw, "response_type=code")
	require.NotContains(t, raw, "client_secret")
	require.Regexp(t, stateRe, u.Query().Get("state"))

	t.Run("fresh state per call", func(t *testing.T) {
		t.Parallel()
		a, _ := url.Parse(p.AuthURL())
		b, _ := url.Parse(p.AuthURL())
		require.NotEqual(t, a.Query().Get("state"), b.Query().Get("state"))
	})

	t.Run("caller state", func(t *testing.T) {
		t.Parallel()
		u, err := url.Parse(p.AuthCodeURL("my-state"))
		require.NoError(t, err)
		require.Equal(t, "my-state", u.Query().Get("state"))
	})
}

func TestGoogleProvider_AuthURL_Scopes(t *testing.T) {
	t.Parallel()
	raw := oauth.NewGoogle(testConfig()).AuthURL()
	require.Contains(t, raw, "scope=openid+profile+email")
	require.NotContains(t, raw, "grant_type")
}

func TestProvider_Exchange_FormBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		wantKeys  []string
		wantGrant string
	}{
		{name: oauth.FacebookProviderName, wantKeys: []string{"code", "client_id", "client_secret", "redirect_uri", "grant_type"}, wantGrant: "authorization_code"},
		{name: oauth.GitHubProviderName, wantKeys: []string{"code", "client_id", "client_secret", "redirect_uri", "state"}},
		{name: oauth.GoogleProviderName, wantKeys: []string{"code", "client_id", "client_secret", "redirect_uri", "grant_type"}, wantGrant: "authorization_code"},
		{name: oauth.LinkedInProviderName, wantKeys: []string{"code", "client_id", "client_secret", "redirect_uri", "grant_type"}, wantGrant: "authorization_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := newRewriteTransport(jsonHandler(http.StatusOK, `{"access_token":"tok-`+tt.name+`","token_type":"bearer"}`))
			p, err := oauth.NewByName(tt.name, testConfig(), oauth.WithHTTPClient(transport.client()))
			require.NoError(t, err)

			require.Equal(t, "tok-"+tt.name, p.AccessToken(context.Background(), "abc"))

			req := transport.last()
			require.Equal(t, http.MethodPost, req.Method)
			require.Equal(t, p.Descriptor().Endpoint.TokenURL, req.URL)
			require.Equal(t, "application/json", req.Header.Get("Accept"))
			require.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))

			form, err := url.ParseQuery(req.Body)
			require.NoError(t, err)
			require.Len(t, form, len(tt.wantKeys))
			for _, key := range tt.wantKeys {
				require.Contains(t, form, key)
			}
			require.Regexp(t, `^code=abc&`, req.Body, "code goes first")
			require.Equal(t, "id1", form.Get("client_id"))
			require.Equal(t, "secret1", form.Get("client_secret"))
			require.Equal(t, "http://app/cb", form.Get("redirect_uri"))
			require.Equal(t, tt.wantGrant, form.Get("grant_type"))
		})
	}
}

func TestProvider_Exchange(t *testing.T) {
	t.Parallel()

	t.Run("typed token", func(t *testing.T) {
		t.Parallel()
		transport := newRewriteTransport(jsonHandler(http.StatusOK,
			`{"access_token":"g-token","token_type":"Bearer","refresh_token":"r-token","expires_in":3600,"id_token":"jwt"}`))
		p := oauth.NewGoogle(testConfig(), oauth.WithHTTPClient(transport.client()))

		token, err := p.Exchange(context.Background(), "code")
		require.NoError(t, err)
		require.Equal(t, "g-token", token.AccessToken)
		require.Equal(t, "Bearer", token.TokenType)
		require.Equal(t, "r-token", token.RefreshToken)
		require.Equal(t, int64(3600), token.ExpiresIn)
		require.WithinDuration(t, time.Now().Add(time.Hour), token.Expiry, time.Minute)
		require.Equal(t, "jwt", token.Extra("id_token"))
	})

	t.Run("non-2xx status", func(t *testing.T) {
		t.Parallel()
		transport := newRewriteTransport(jsonHandler(http.StatusBadRequest, `{"error":"invalid_grant"}`))
		p := oauth.NewGitHub(testConfig(), oauth.WithHTTPClient(transport.client()))

		require.Empty(t, p.AccessToken(context.Background(), "bad-code"))

		_, err := p.Exchange(context.Background(), "bad-code")
		require.ErrorIs(t, err, oauth.ErrRequestFailed)

		var respErr *oauth.ResponseError
		require.True(t, errors.As(err, &respErr))
		require.Equal(t, http.StatusBadRequest, respErr.StatusCode)
		require.Contains(t, respErr.Body, "invalid_grant")
	})

	t.Run("error in 200 response", func(t *testing.T) {
		t.Parallel()
		transport := newRewriteTransport(jsonHandler(http.StatusOK,
			`{"error":"bad_verification_code","error_description":"The code passed is incorrect or expired."}`))
		p := oauth.NewGitHub(testConfig(), oauth.WithHTTPClient(transport.client()))

		_, err := p.Exchange(context.Background(), "bad-code")
		require.ErrorIs(t, err, oauth.ErrMissingAccessToken)
		require.ErrorContains(t, err, "bad_verification_code")
		require.Empty(t, p.AccessToken(context.Background(), "bad-code"))
	})

	t.Run("invalid JSON", func(t *testing.T) {
		t.Parallel()
		transport := newRewriteTransport(jsonHandler(http.StatusOK, `access_token=x&scope=user`))
		p := oauth.NewGitHub(testConfig(), oauth.WithHTTPClient(transport.client()))

		_, err := p.Exchange(context.Background(), "code")
		require.ErrorIs(t, err, oauth.ErrDecodeFailed)
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()
		client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})}
		p := oauth.NewFacebook(testConfig(), oauth.WithHTTPClient(client))

		_, err := p.Exchange(context.Background(), "code")
		require.ErrorIs(t, err, oauth.ErrFetchFailed)
		require.Empty(t, p.AccessToken(context.Background(), "code"))
	})
}

func TestProvider_FetchUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		wantURL    string
		wantBearer bool
	}{
		{
			name:    oauth.FacebookProviderName,
			wantURL: "https://graph.facebook.com/me?fields=id,name,email&access_token=tok%2B1",
		},
		{
			name:       oauth.GitHubProviderName,
			wantURL:    "https://api.github.com/user",
			wantBearer: true,
		},
		{
			name:    oauth.GoogleProviderName,
			wantURL: "https://www.googleapis.com/oauth2/v3/userinfo?access_token=tok%2B1",
		},
		{
			name:       oauth.LinkedInProviderName,
			wantURL:    "https://api.linkedin.com/v2/me?projection=(id,firstName,lastName,profilePicture(displayImage~:playableStreams))",
			wantBearer: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := newRewriteTransport(jsonHandler(http.StatusOK, `{"id":"42","name":"Ada"}`))
			p, err := oauth.NewByName(tt.name, testConfig(), oauth.WithHTTPClient(transport.client()))
			require.NoError(t, err)

			user := p.User(context.Background(), "tok+1")
			require.Equal(t, map[string]any{"id": "42", "name": "Ada"}, user)

			req := transport.last()
			require.Equal(t, http.MethodGet, req.Method)
			require.Equal(t, tt.wantURL, req.URL)
			require.Equal(t, "application/json", req.Header.Get("Accept"))
			if tt.wantBearer {
				require.Equal(t, "Bearer tok+1", req.Header.Get("Authorization"))
			} else {
				require.Empty(t, req.Header.Get("Authorization"))
			}
		})
	}
}

func TestGitHubProvider_UserAgent(t *testing.T) {
	t.Parallel()

	t.Run("default", func(t *testing.T) {
		t.Parallel()
		transport := newRewriteTransport(jsonHandler(http.StatusOK, `{"id":1}`))
		p := oauth.NewGitHub(testConfig(), oauth.WithHTTPClient(transport.client()))

		_, err := p.FetchUser(context.Background(), "tok")
		require.NoError(t, err)
		require.Equal(t, oauth.DefaultUserAgent, transport.last().Header.Get("User-Agent"))
	})

	t.Run("override", func(t *testing.T) {
		t.Parallel()
		transport := newRewriteTransport(jsonHandler(http.StatusOK, `{"id":1}`))
		p := oauth.NewGitHub(testConfig(),
			oauth.WithHTTPClient(transport.client()),
			oauth.WithUserAgent("my-app/1.0"),
		)

		_, err := p.FetchUser(context.Background(), "tok")
		require.NoError(t, err)
		require.Equal(t, "my-app/1.0", transport.last().Header.Get("User-Agent"))
	})
}

func TestProvider_FetchUser_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantErr: oauth.ErrRequestFailed},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"message":"Bad credentials"}`, wantErr: oauth.ErrRequestFailed},
		{name: "not json", status: http.StatusOK, body: `not-json`, wantErr: oauth.ErrDecodeFailed},
		{name: "array", status: http.StatusOK, body: `[1,2]`, wantErr: oauth.ErrDecodeFailed},
		{name: "null", status: http.StatusOK, body: `null`, wantErr: oauth.ErrDecodeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := newRewriteTransport(jsonHandler(tt.status, tt.body))
			p := oauth.NewLinkedIn(testConfig(), oauth.WithHTTPClient(transport.client()))

			user, err := p.FetchUser(context.Background(), "tok")
			require.ErrorIs(t, err, tt.wantErr)
			require.Nil(t, user)
			require.Nil(t, p.User(context.Background(), "tok"))
		})
	}
}

func TestProvider_ConfigProjection(t *testing.T) {
	t.Parallel()

	p := oauth.NewFacebook(testConfig())

	only := p.OnlyConfig(oauth.ParamGrantType, oauth.ParamClientID)
	require.Equal(t, []string{"client_id", "grant_type"}, only.Keys())

	without := p.WithoutConfig(oauth.ParamClientSecret, oauth.ParamState)
	require.Equal(t, []string{"client_id", "redirect_uri", "scope", "response_type", "grant_type"}, without.Keys())

	scope, err := p.Scope("0")
	require.NoError(t, err)
	require.Equal(t, "email", scope)

	_, err = p.Scope("1")
	require.ErrorIs(t, err, oauth.ErrScopeNotFound)
}

func TestProvider_ProjectionIdempotence(t *testing.T) {
	t.Parallel()

	keys := []string{oauth.ParamScope, oauth.ParamClientID, oauth.ParamGrantType, "unknown"}

	for name, desc := range oauth.Descriptors() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p := oauth.New(desc, testConfig())

			all := p.Params().Keys()
			var rest []string
			for _, k := range all {
				if !slices.Contains(keys, k) {
					rest = append(rest, k)
				}
			}

			only := p.OnlyConfig(keys...)
			require.Equal(t, only.Keys(), only.Only(keys...).Keys(), "only is idempotent")
			require.Equal(t, only.Keys(), p.WithoutConfig(rest...).Keys(), "only(K) == without(all - K)")
			require.NotContains(t, only.Keys(), "unknown")

			without := p.WithoutConfig(keys...)
			require.Equal(t, without.Keys(), without.Without(keys...).Keys(), "without is idempotent")
			require.Equal(t, len(all), only.Len()+without.Len())
		})
	}
}

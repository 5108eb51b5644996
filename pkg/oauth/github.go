package oauth

import (
	githubOAuth "golang.org/x/oauth2/github"
)

const (
	// GitHubProviderName is the identifier for GitHub OAuth provider.
	GitHubProviderName = "github"
	githubUserURL      = "https://api.github.com/user"

	// DefaultUserAgent is sent to GitHub, whose API rejects requests without one.
	DefaultUserAgent = "thirdparty-oauth-client"
)

// GitHubDefaultScopes returns the default scopes for GitHub OAuth.
func GitHubDefaultScopes() []string {
	return []string{"user"}
}

// GitHub returns the GitHub provider descriptor.
// The token exchange carries the state and asks for JSON, since GitHub answers
// form-encoded otherwise. The user endpoint is authorized with a bearer header.
func GitHub() Descriptor {
	return Descriptor{
		Name:          GitHubProviderName,
		Endpoint:      githubOAuth.Endpoint,
		UserURL:       githubUserURL,
		DefaultScopes: GitHubDefaultScopes(),
		TokenParams:   []string{ParamClientID, ParamClientSecret, ParamRedirectURI, ParamState},
		TokenHeaders:  map[string]string{"Accept": "application/json"},
		UserAuth:      UserAuthBearer,
		UserHeaders:   map[string]string{"User-Agent": DefaultUserAgent},
	}
}

// NewGitHub creates a GitHub OAuth provider.
func NewGitHub(cfg ProviderConfig, opts ...Option) *Provider {
	return New(GitHub(), cfg, opts...)
}

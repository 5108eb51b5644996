package oauth

import "golang.org/x/oauth2"

const (
	// GoogleProviderName is the identifier for Google OAuth provider.
	GoogleProviderName = "google"
	googleAuthURL      = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL     = "https://www.googleapis.com/oauth2/v4/token"
	googleUserURL      = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// GoogleDefaultScopes returns the default scopes for Google OAuth.
func GoogleDefaultScopes() []string {
	return []string{"openid", "profile", "email"}
}

// Google returns the Google provider descriptor.
func Google() Descriptor {
	return Descriptor{
		Name: GoogleProviderName,
		Endpoint: oauth2.Endpoint{
			AuthURL:   googleAuthURL,
			TokenURL:  googleTokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		UserURL:       googleUserURL,
		DefaultScopes: GoogleDefaultScopes(),
		GrantType:     GrantTypeAuthorizationCode,
		TokenParams:   []string{ParamClientID, ParamClientSecret, ParamRedirectURI, ParamGrantType},
		UserAuth:      UserAuthQuery,
	}
}

// NewGoogle creates a Google OAuth provider.
func NewGoogle(cfg ProviderConfig, opts ...Option) *Provider {
	return New(Google(), cfg, opts...)
}

package oauth

import "golang.org/x/oauth2"

const (
	// FacebookProviderName is the identifier for Facebook OAuth provider.
	FacebookProviderName = "facebook"
	facebookAuthURL      = "https://www.facebook.com/v12.0/dialog/oauth"
	facebookTokenURL     = "https://graph.facebook.com/v12.0/oauth/access_token"
	facebookUserURL      = "https://graph.facebook.com/me?fields=id,name,email"
)

// FacebookDefaultScopes returns the default scopes for Facebook OAuth.
func FacebookDefaultScopes() []string {
	return []string{"email"}
}

// Facebook returns the Facebook provider descriptor.
// The user URL already has a query, so the access token is appended with "&".
func Facebook() Descriptor {
	return Descriptor{
		Name: FacebookProviderName,
		Endpoint: oauth2.Endpoint{
			AuthURL:   facebookAuthURL,
			TokenURL:  facebookTokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		UserURL:       facebookUserURL,
		DefaultScopes: FacebookDefaultScopes(),
		GrantType:     GrantTypeAuthorizationCode,
		TokenParams:   []string{ParamClientID, ParamClientSecret, ParamRedirectURI, ParamGrantType},
		UserAuth:      UserAuthQuery,
	}
}

// NewFacebook creates a Facebook OAuth provider.
func NewFacebook(cfg ProviderConfig, opts ...Option) *Provider {
	return New(Facebook(), cfg, opts...)
}

package oauth

import (
	linkedinOAuth "golang.org/x/oauth2/linkedin"
)

const (
	// LinkedInProviderName is the identifier for LinkedIn OAuth provider.
	LinkedInProviderName = "linkedin"
	linkedinUserURL      = "https://api.linkedin.com/v2/me?projection=(id,firstName,lastName,profilePicture(displayImage~:playableStreams))"
)

// LinkedInDefaultScopes returns the default scopes for LinkedIn OAuth.
func LinkedInDefaultScopes() []string {
	return []string{"r_liteprofile", "r_emailaddress"}
}

// LinkedIn returns the LinkedIn provider descriptor.
func LinkedIn() Descriptor {
	return Descriptor{
		Name:          LinkedInProviderName,
		Endpoint:      linkedinOAuth.Endpoint,
		UserURL:       linkedinUserURL,
		DefaultScopes: LinkedInDefaultScopes(),
		GrantType:     GrantTypeAuthorizationCode,
		TokenParams:   []string{ParamClientID, ParamClientSecret, ParamRedirectURI, ParamGrantType},
		UserAuth:      UserAuthBearer,
	}
}

// NewLinkedIn creates a LinkedIn OAuth provider.
func NewLinkedIn(cfg ProviderConfig, opts ...Option) *Provider {
	return New(LinkedIn(), cfg, opts...)
}

package oauth

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"strings"

	"golang.org/x/oauth2"
)

// UserAuthStyle selects how the access token is sent to the user-info endpoint.
type UserAuthStyle int

const (
	// UserAuthQuery sends the token as the access_token query parameter.
	UserAuthQuery UserAuthStyle = iota
	// UserAuthBearer sends the token in an "Authorization: Bearer" header.
	UserAuthBearer
)

// GrantTypeAuthorizationCode is the grant_type sent by providers that require one.
const GrantTypeAuthorizationCode = "authorization_code"

// authURLParams are the keys every authorization URL carries.
var authURLParams = []string{ParamResponseType, ParamClientID, ParamRedirectURI, ParamScope, ParamState}

// Descriptor holds everything that differs between providers:
// endpoints, default scopes, and the shape of the token and user requests.
type Descriptor struct {
	// TokenHeaders are sent with the token exchange request.
	TokenHeaders map[string]string
	// UserHeaders are sent with the user-info request.
	UserHeaders map[string]string
	// Name identifies the provider (e.g., "github").
	Name string
	// UserURL is the user-info endpoint. It may already carry a query.
	UserURL string
	// GrantType is added to the configuration mapping when not empty.
	GrantType string
	// Endpoint holds the authorization and token URLs.
	Endpoint oauth2.Endpoint
	// DefaultScopes replace an empty scope list at construction.
	DefaultScopes []string
	// TokenParams are the configuration keys posted along with the code.
	TokenParams []string
	// UserAuth selects how the access token reaches UserURL.
	UserAuth UserAuthStyle
}

// params assembles the provider configuration mapping for cfg.
func (d Descriptor) params(cfg Config) Params {
	p := cfg.params(StateTokenLength).Set(ParamResponseType, "code")
	if d.GrantType != "" {
		p = p.Set(ParamGrantType, d.GrantType)
	}
	return p
}

// authURL renders the authorization URL from a configuration mapping.
func (d Descriptor) authURL(params Params) string {
	return BuildURL(d.Endpoint.AuthURL, params.Only(authURLParams...))
}

// tokenForm is the form body of the token exchange: the code first,
// then the projected configuration keys.
func (d Descriptor) tokenForm(params Params, code string) Params {
	return NewParams(Param{Key: ParamCode, Value: code}).Merge(params.Only(d.TokenParams...))
}

func (d Descriptor) newTokenRequest(ctx context.Context, params Params, code string) (*http.Request, error) {
	form := d.tokenForm(params, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	setHeaders(req, d.TokenHeaders)
	return req, nil
}

// newUserRequest builds the user-info request. Bearer authorization is not set
// here; the provider adds it through an oauth2.Transport.
func (d Descriptor) newUserRequest(ctx context.Context, token string) (*http.Request, error) {
	target := d.UserURL
	if d.UserAuth == UserAuthQuery {
		target = BuildURL(d.UserURL, NewParams(Param{Key: ParamAccessToken, Value: token}))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	setHeaders(req, d.UserHeaders)
	return req, nil
}

func (d Descriptor) clone() Descriptor {
	d.DefaultScopes = slices.Clone(d.DefaultScopes)
	d.TokenParams = slices.Clone(d.TokenParams)
	d.TokenHeaders = maps.Clone(d.TokenHeaders)
	d.UserHeaders = maps.Clone(d.UserHeaders)
	return d
}

func setHeaders(req *http.Request, headers map[string]string) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

// Descriptors returns the built-in provider descriptors keyed by name.
func Descriptors() map[string]Descriptor {
	return map[string]Descriptor{
		FacebookProviderName: Facebook(),
		GitHubProviderName:   GitHub(),
		GoogleProviderName:   Google(),
		LinkedInProviderName: LinkedIn(),
	}
}

// LookupDescriptor returns the built-in descriptor registered under name.
func LookupDescriptor(name string) (Descriptor, bool) {
	d, ok := Descriptors()[name]
	return d, ok
}

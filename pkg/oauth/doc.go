// Package oauth implements the OAuth 2.0 authorization code flow for Facebook,
// GitHub, Google and LinkedIn behind a single Service contract.
//
// Providers differ only in data: endpoints, default scopes, the parameters
// posted during the token exchange and how the access token reaches the
// user-info endpoint. That data lives in a Descriptor, and one Provider type
// runs the flow for any descriptor.
//
// # Usage
//
//	provider := oauth.NewGitHub(oauth.ProviderConfig{
//		ClientID:     os.Getenv("GITHUB_OAUTH_CLIENT_ID"),
//		ClientSecret: os.Getenv("GITHUB_OAUTH_CLIENT_SECRET"),
//		RedirectURL:  "https://example.com/auth/github/callback",
//	})
//
//	// Redirect the user
//	http.Redirect(w, r, provider.AuthURL(), http.StatusFound)
//
//	// In the callback handler
//	token := provider.AccessToken(ctx, r.URL.Query().Get("code"))
//	user := provider.User(ctx, token)
//
// AccessToken and User return "" and nil on any failure. Use Exchange and
// FetchUser when the cause matters:
//
//	token, err := provider.Exchange(ctx, code)
//	if errors.Is(err, oauth.ErrRequestFailed) {
//		var respErr *oauth.ResponseError
//		if errors.As(err, &respErr) {
//			// respErr.StatusCode, respErr.Body
//		}
//	}
//
// # Configuration
//
// Config is an immutable value. WithClientID, WithClientSecret, WithRedirectURL
// and WithScopes return copies:
//
//	cfg := oauth.NewConfig("id", "secret", "https://app/cb", "email")
//	other := cfg.WithScopes("email", "profile") // cfg is unchanged
//
// Params returns the configuration as an ordered mapping with a fresh random
// state on every call. OnlyConfig and WithoutConfig project it.
//
// # State
//
// The state generated here is never verified by this package. Callers that
// need CSRF protection pass their own state to AuthCodeURL and check it on the
// callback (see the state package).
//
// # Testing
//
// Use WithHTTPClient to route provider requests to a test server:
//
//	provider := oauth.NewGoogle(cfg, oauth.WithHTTPClient(ts.Client()))
package oauth

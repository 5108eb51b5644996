// Package thirdparty signs users in with Facebook, GitHub, Google and LinkedIn
// accounts.
//
// The providers themselves live in pkg/oauth and are stateless: each call to
// AuthURL embeds a fresh random state that nobody checks. Authenticator adds
// the missing half. Begin stores the state it puts into the authorization URL,
// and Complete accepts a callback only if that state is presented once, for
// the same provider, before it expires.
//
//	providers, err := thirdparty.NewProviders(map[string]oauth.ProviderConfig{
//		"github": {ClientID: id, ClientSecret: secret, RedirectURL: "https://app/auth/github/callback"},
//	})
//	if err != nil {
//		return err
//	}
//	auth, err := thirdparty.New(
//		thirdparty.WithProviders(providers...),
//		thirdparty.WithStateStore(state.NewRedis(client)),
//	)
//
//	// GET /auth/github
//	target, err := auth.Begin(ctx, "github", "/dashboard")
//	http.Redirect(w, r, target, http.StatusFound)
//
//	// GET /auth/github/callback
//	res, err := auth.Complete(ctx, "github", r.URL.Query())
//	switch {
//	case errors.Is(err, thirdparty.ErrStateMismatch):
//		// forged, replayed or expired callback
//	case errors.Is(err, thirdparty.ErrAuthorizationDenied):
//		// user declined on the provider's consent screen
//	}
//
// cmd/thirdparty serves these flows over HTTP.
package thirdparty

// Package cookie signs cookies with HMAC-SHA256.
//
// The server uses it to bind a login to the browser that started it: the
// state issued on redirect is stored in a signed cookie and compared with the
// state the provider sends back.
//
//	signer, err := cookie.NewSigner(secret, cookie.WithSecure(true))
//	if err != nil {
//		return err
//	}
//	signer.Set(w, "oauth_state", state, 10*time.Minute)
//
//	value, err := signer.Get(r, "oauth_state")
//	switch {
//	case errors.Is(err, cookie.ErrNotFound):
//		// cookie missing or expired
//	case errors.Is(err, cookie.ErrBadSig):
//		// cookie tampered with
//	}
package cookie

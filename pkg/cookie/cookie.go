package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"
)

// MinSecretLength is the shortest accepted signing secret.
const MinSecretLength = 32

// Errors.
var (
	ErrNotFound  = errors.New("cookie: not found")
	ErrBadSecret = errors.New("cookie: secret must be 32+ bytes")
	ErrBadSig    = errors.New("cookie: invalid signature")
)

// Signer writes and verifies HMAC-SHA256 signed cookies. The signature
// covers the cookie name, so a value cannot be replayed under another name.
type Signer struct {
	secret   []byte
	domain   string
	path     string
	secure   bool
	sameSite http.SameSite
}

// Option configures a Signer.
type Option func(*Signer)

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(s *Signer) {
		s.domain = domain
	}
}

// WithPath sets the cookie path. Defaults to "/".
func WithPath(path string) Option {
	return func(s *Signer) {
		if path != "" {
			s.path = path
		}
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(s *Signer) {
		s.secure = secure
	}
}

// WithSameSite sets the SameSite attribute. Defaults to Lax, which still
// sends the cookie on the top-level redirect back from a provider.
func WithSameSite(ss http.SameSite) Option {
	return func(s *Signer) {
		s.sameSite = ss
	}
}

// NewSigner creates a Signer. Cookies are always HttpOnly.
func NewSigner(secret string, opts ...Option) (*Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrBadSecret
	}

	s := &Signer{
		secret:   []byte(secret),
		path:     "/",
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Set writes a signed cookie that expires after maxAge.
// A non-positive maxAge makes it a session cookie.
func (s *Signer) Set(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	// Format: base64(value).base64(signature)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(value)) +
		"." + base64.RawURLEncoding.EncodeToString(s.sign(name, value))

	http.SetCookie(w, s.cookie(name, encoded, int(maxAge/time.Second)))
}

// Get returns the verified value of a signed cookie.
func (s *Signer) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrNotFound
		}
		return "", err
	}

	rawValue, rawSig, ok := strings.Cut(c.Value, ".")
	if !ok {
		return "", ErrBadSig
	}
	value, err := base64.RawURLEncoding.DecodeString(rawValue)
	if err != nil {
		return "", ErrBadSig
	}
	sig, err := base64.RawURLEncoding.DecodeString(rawSig)
	if err != nil {
		return "", ErrBadSig
	}

	if !hmac.Equal(sig, s.sign(name, string(value))) {
		return "", ErrBadSig
	}
	return string(value), nil
}

// Delete expires the cookie in the browser.
func (s *Signer) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, s.cookie(name, "", -1))
}

func (s *Signer) sign(name, value string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(name))
	mac.Write([]byte{0})
	mac.Write([]byte(value))
	return mac.Sum(nil)
}

func (s *Signer) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     s.path,
		Domain:   s.domain,
		MaxAge:   maxAge,
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: s.sameSite,
	}
}

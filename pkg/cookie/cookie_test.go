package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/thirdparty/pkg/cookie"
)

const secret = "0123456789abcdef0123456789abcdef"

func newSigner(t *testing.T, opts ...cookie.Option) *cookie.Signer {
	t.Helper()
	s, err := cookie.NewSigner(secret, opts...)
	require.NoError(t, err)
	return s
}

// replay copies the cookies set on rec into a new request.
func replay(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNewSigner(t *testing.T) {
	t.Parallel()

	_, err := cookie.NewSigner("short")
	require.ErrorIs(t, err, cookie.ErrBadSecret)
}

func TestSetGet(t *testing.T) {
	t.Parallel()

	s := newSigner(t, cookie.WithSecure(true), cookie.WithPath("/auth"), cookie.WithDomain("app.example"))

	rec := httptest.NewRecorder()
	s.Set(rec, "oauth_state", "abc123", 10*time.Minute)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "oauth_state", c.Name)
	assert.Equal(t, 600, c.MaxAge)
	assert.Equal(t, "/auth", c.Path)
	assert.Equal(t, "app.example", c.Domain)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.NotContains(t, c.Value, "abc123")

	got, err := s.Get(replay(rec), "oauth_state")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)
}

func TestGetErrors(t *testing.T) {
	t.Parallel()

	s := newSigner(t)

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		_, err := s.Get(httptest.NewRequest(http.MethodGet, "/", nil), "oauth_state")
		assert.ErrorIs(t, err, cookie.ErrNotFound)
	})

	t.Run("tampered value", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		s.Set(rec, "oauth_state", "abc123", time.Minute)
		c := rec.Result().Cookies()[0]
		_, sig, _ := strings.Cut(c.Value, ".")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "ZXZpbA." + sig})
		_, err := s.Get(req, "oauth_state")
		assert.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("no signature", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "YWJj"})
		_, err := s.Get(req, "oauth_state")
		assert.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("renamed cookie", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		s.Set(rec, "a", "abc123", time.Minute)
		c := rec.Result().Cookies()[0]

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "b", Value: c.Value})
		_, err := s.Get(req, "b")
		assert.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("other secret", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		s.Set(rec, "oauth_state", "abc123", time.Minute)

		other, err := cookie.NewSigner(strings.Repeat("x", cookie.MinSecretLength))
		require.NoError(t, err)
		_, err = other.Get(replay(rec), "oauth_state")
		assert.ErrorIs(t, err, cookie.ErrBadSig)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newSigner(t).Delete(rec, "oauth_state")

	c := rec.Result().Cookies()[0]
	assert.Equal(t, "oauth_state", c.Name)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}

package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/thirdparty"
	"github.com/dmitrymomot/thirdparty/pkg/cookie"
)

const stateCookiePrefix = "oauth_state_"

// Authenticator is the part of thirdparty.Authenticator the handlers use.
type Authenticator interface {
	Providers() []string
	Begin(ctx context.Context, provider, redirectTo string) (string, error)
	Complete(ctx context.Context, provider string, q url.Values) (*thirdparty.Result, error)
}

var _ Authenticator = (*thirdparty.Authenticator)(nil)

type handlers struct {
	auth             Authenticator
	logger           *slog.Logger
	cookies          *cookie.Signer
	allowedRedirects []string
	cookieTTL        time.Duration
}

type providersResponse struct {
	Providers []string `json:"providers"`
}

type callbackResponse struct {
	User        map[string]any `json:"user"`
	Provider    string         `json:"provider"`
	AccessToken string         `json:"access_token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) providers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, providersResponse{Providers: h.auth.Providers()})
}

func (h *handlers) begin(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	redirectTo := r.URL.Query().Get("redirect_to")

	if redirectTo != "" && !h.redirectAllowed(redirectTo) {
		writeError(w, http.StatusBadRequest, "redirect_to is not allowed")
		return
	}

	target, err := h.auth.Begin(r.Context(), provider, redirectTo)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if h.cookies != nil {
		if u, err := url.Parse(target); err == nil {
			h.cookies.Set(w, stateCookiePrefix+provider, u.Query().Get("state"), h.cookieTTL)
		}
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *handlers) callback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	if h.cookies != nil {
		if err := h.checkStateCookie(w, r, provider); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	res, err := h.auth.Complete(r.Context(), provider, r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")

	if res.RedirectTo != "" {
		target, err := url.Parse(res.RedirectTo)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		q := target.Query()
		q.Set("provider", res.Provider)
		target.RawQuery = q.Encode()
		http.Redirect(w, r, target.String(), http.StatusFound)
		return
	}

	writeJSON(w, http.StatusOK, callbackResponse{
		Provider:    res.Provider,
		AccessToken: res.Token.AccessToken,
		User:        res.User,
	})
}

// checkStateCookie compares the state in the callback with the one stored in
// the browser on redirect. The cookie is removed either way.
func (h *handlers) checkStateCookie(w http.ResponseWriter, r *http.Request, provider string) error {
	name := stateCookiePrefix + provider
	stored, err := h.cookies.Get(r, name)
	h.cookies.Delete(w, name)
	if err != nil {
		return errors.Join(thirdparty.ErrStateMismatch, err)
	}

	got := r.URL.Query().Get("state")
	if got == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(got)) != 1 {
		return errors.Join(thirdparty.ErrStateMismatch, errors.New("state does not match browser cookie"))
	}
	return nil
}

// redirectAllowed matches redirectTo against the allow-list: exact match, or
// prefix match for entries ending in "/". Without an allow-list only local
// paths are accepted.
func (h *handlers) redirectAllowed(redirectTo string) bool {
	if len(h.allowedRedirects) == 0 {
		return strings.HasPrefix(redirectTo, "/") && !strings.HasPrefix(redirectTo, "//") &&
			!strings.Contains(redirectTo, `\`)
	}
	for _, allowed := range h.allowedRedirects {
		if redirectTo == allowed || (strings.HasSuffix(allowed, "/") && strings.HasPrefix(redirectTo, allowed)) {
			return true
		}
	}
	return false
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", slog.String("error", err.Error()))
	}

	msg := http.StatusText(status)
	switch {
	case errors.Is(err, thirdparty.ErrProviderNotFound):
		msg = "unknown provider"
	case errors.Is(err, thirdparty.ErrStateMismatch):
		msg = "invalid or expired state"
	case errors.Is(err, thirdparty.ErrAuthorizationDenied):
		msg = "authorization denied"
	case errors.Is(err, thirdparty.ErrMissingCode):
		msg = "missing authorization code"
	case errors.Is(err, thirdparty.ErrProviderFailed):
		msg = "provider request failed"
	}
	writeError(w, status, msg)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, thirdparty.ErrProviderNotFound):
		return http.StatusNotFound
	case errors.Is(err, thirdparty.ErrStateMismatch),
		errors.Is(err, thirdparty.ErrAuthorizationDenied),
		errors.Is(err, thirdparty.ErrMissingCode):
		return http.StatusBadRequest
	case errors.Is(err, thirdparty.ErrProviderFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

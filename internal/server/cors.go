package server

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DefaultCORSMaxAge is the preflight cache duration.
const DefaultCORSMaxAge = 12 * time.Hour

var (
	corsAllowMethods = strings.Join([]string{http.MethodGet, http.MethodOptions}, ", ")
	corsAllowHeaders = strings.Join([]string{"Origin", "Content-Type", "Accept", "X-Request-ID"}, ", ")
	corsMaxAge       = strconv.Itoa(int(DefaultCORSMaxAge.Seconds()))
)

// CORS lets browser apps on the listed origins call the /auth endpoints,
// for example to discover providers. "*" allows any origin. Credentials are
// never allowed.
func CORS(origins ...string) func(http.Handler) http.Handler {
	wildcard := slices.Contains(origins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || (!wildcard && !slices.Contains(origins, origin)) {
				next.ServeHTTP(w, r)
				return
			}

			headers := w.Header()
			headers.Add("Vary", "Origin")
			if wildcard {
				headers.Set("Access-Control-Allow-Origin", "*")
			} else {
				headers.Set("Access-Control-Allow-Origin", origin)
			}
			headers.Set("Access-Control-Expose-Headers", "X-Request-ID")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				headers.Add("Vary", "Access-Control-Request-Method")
				headers.Add("Vary", "Access-Control-Request-Headers")
				headers.Set("Access-Control-Allow-Methods", corsAllowMethods)
				headers.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				headers.Set("Access-Control-Max-Age", corsMaxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

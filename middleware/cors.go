// Package middleware holds HTTP middleware for `dapgen serve`.
package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// CORSConfig configures the CORS middleware. The declaration server is
// read-only, so the defaults only cover safe methods.
type CORSConfig struct {
	// AllowOrigins lists origins that may fetch declarations.
	// "*" allows any origin. Default: ["*"]
	AllowOrigins []string

	// AllowMethods defaults to GET, HEAD, OPTIONS.
	AllowMethods []string

	// AllowHeaders defaults to If-None-Match.
	AllowHeaders []string

	// ExposeHeaders lists response headers readable by scripts.
	// Default: ETag
	ExposeHeaders []string

	// MaxAge is the preflight cache lifetime in seconds. 0 leaves it unset.
	MaxAge int
}

// CORS returns middleware that answers preflight requests and sets the
// Access-Control-* headers on every response. A nil cfg allows any origin.
func CORS(cfg *CORSConfig) func(http.Handler) http.Handler {
	if cfg == nil {
		cfg = &CORSConfig{}
	}
	origins := orDefault(cfg.AllowOrigins, "*")
	methods := strings.Join(orDefault(cfg.AllowMethods, http.MethodGet, http.MethodHead, http.MethodOptions), ", ")
	headers := strings.Join(orDefault(cfg.AllowHeaders, "If-None-Match"), ", ")
	exposed := strings.Join(orDefault(cfg.ExposeHeaders, "ETag"), ", ")
	wildcard := slices.Contains(origins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(origins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Expose-Headers", exposed)

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				if cfg.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func orDefault(values []string, def ...string) []string {
	if len(values) == 0 {
		return def
	}
	return values
}

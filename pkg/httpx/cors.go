package httpx

import (
	"net/http"
	"slices"
	"strings"
)

// CORSConfig mirrors the usual browser cross-origin knobs. An AllowedOrigins
// entry of "*" allows any origin.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// CORSMiddleware answers preflight requests and stamps the CORS headers on
// everything else.
func CORSMiddleware(cfg CORSConfig) Middleware {
	allowAll := slices.Contains(cfg.AllowedOrigins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAll || slices.Contains(cfg.AllowedOrigins, origin)) {
				if allowAll && !cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else {
					// Credentialed requests need the literal origin echoed back.
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Add("Vary", "Origin")
				}
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods",
					strings.Join([]string{
						http.MethodGet, http.MethodPost, http.MethodPut,
						http.MethodPatch, http.MethodDelete, http.MethodOptions,
					}, ", "))
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

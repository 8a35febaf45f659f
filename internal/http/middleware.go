package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/rolodex/internal/domain"
	"github.com/aussiebroadwan/rolodex/internal/service"
	"github.com/aussiebroadwan/rolodex/pkg/httpx"
)

type identityKey struct{}

// identityFrom returns the authenticated user placed in the context by
// RequireAuth.
func identityFrom(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(identityKey{}).(domain.User)
	return u, ok
}

// RequireAuth resolves the bearer token to a user and stores the identity in
// the request context. Missing or bad tokens get a 401 before the handler
// runs. It also sets httpx.CtxKeyUserID so per-user rate limiting keys off
// the resolved account.
func RequireAuth(auth *service.AuthService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			user, err := auth.ResolveIdentity(r.Context(), token)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, user)
			ctx = context.WithValue(ctx, httpx.CtxKeyUserID, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route behind the allowed roles. It must sit inside
// RequireAuth in the chain: authentication failures come out as 401 first,
// then role failures as 403.
func RequireRole(auth *service.AuthService, allowed ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := identityFrom(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}
			if err := auth.Authorize(user, allowed...); err != nil {
				writeServiceError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

package api

import (
	"net/http"
	"strings"
	"time"

	"eventmarket/internal/auth"
)

// BearerAuth verifies `Authorization: Bearer <JWT>` and attaches the caller to
// the request context.
//
// Contract:
// - missing or malformed header -> 401 UNAUTHORIZED
// - bad signature, expired token, unknown role -> 401 UNAUTHORIZED
func BearerAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
				return
			}

			p, err := auth.Verify(strings.TrimSpace(authz[7:]), secret, time.Now())
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid bearer token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole must run after BearerAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			WriteError(w, http.StatusForbidden, "FORBIDDEN", "insufficient role")
		})
	}
}

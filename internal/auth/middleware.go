package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means only this package can read or write the
// identity value, so no other package can collide with or shadow it.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth enforces authentication on protected routes.
//
// The Authorization header is expected to be the raw token string; there
// is no "Bearer " prefix. Existing clients send the bare token, so the
// middleware must not try to strip a scheme.
//
// Responses are empty-bodied by contract:
//   - missing header       → 401 Unauthorized
//   - unverifiable token   → 403 Forbidden
//
// On success the decoded Identity is stored in the request context and the
// chain continues.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			id, err := tokens.Validate(raw)
			if err != nil {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated identity set by
// RequireAuth. Returns (zero, false) on routes that never passed through
// the middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

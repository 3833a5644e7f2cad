package middleware

import (
	"net/http"
	"strings"

	"leavehub/internal/domain/auth"
	"leavehub/internal/transport/http/api"
)

// Auth rejects requests without a valid bearer token. Missing and malformed
// credentials get different codes so clients can tell a forgotten header
// from an expired token.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
				api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid authorization header", GetRequestID(r.Context()))
				return
			}

			identity, err := auth.ParseToken(secret, strings.TrimSpace(authHeader[len("bearer "):]))
			if err != nil {
				api.Fail(w, http.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token", GetRequestID(r.Context()))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), identity)))
		})
	}
}

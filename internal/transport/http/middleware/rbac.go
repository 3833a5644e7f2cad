package middleware

import (
	"log/slog"
	"net/http"

	"leavehub/internal/transport/http/api"
)

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", GetRequestID(r.Context()))
				return
			}

			for _, role := range roles {
				if user.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}

			slog.Warn("access denied",
				"userId", user.UserID,
				"userRoles", user.Roles,
				"allowedRoles", roles,
				"path", r.URL.Path,
			)
			api.Fail(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions", GetRequestID(r.Context()))
		})
	}
}

// OwnData lets admins query anyone and restricts everyone else to their own
// user_id. A request without an explicit user_id always passes; handlers
// default it to the caller.
func OwnData(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			api.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", GetRequestID(r.Context()))
			return
		}

		requested := r.URL.Query().Get("user_id")
		if requested != "" && requested != user.UserID && !user.IsAdmin() {
			slog.Warn("access denied, not own data",
				"userId", user.UserID,
				"requestedUserId", requested,
			)
			api.Fail(w, http.StatusForbidden, "FORBIDDEN", "you can only access your own data", GetRequestID(r.Context()))
			return
		}

		next.ServeHTTP(w, r)
	})
}

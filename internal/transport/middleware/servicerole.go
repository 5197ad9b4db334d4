package middleware

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// RequireServiceRole guards endpoints that only the auth provider's webhook
// dispatcher may call, authorized with the administrative service role key.
func RequireServiceRole(serviceRoleKey string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				token = ""
			}

			if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(serviceRoleKey)) != 1 {
				logger.Warn("service role check failed",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error": "Unauthorized"}`)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

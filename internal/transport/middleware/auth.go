package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/team-management/internal"
	"github.com/golang-jwt/jwt/v5"
)

// Auth verifies the provider-issued access token and puts the user id into
// the request context. Sessions are minted by the hosted auth service; this
// service only verifies the shared-secret HS256 signature.
func Auth(jwtSecret string, logger *slog.Logger) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				logger.Warn("auth middleware: missing authorization token", "path", r.URL.Path)
				writeUnauthorized(w, "missing authorization token")
				return
			}

			claims := &jwt.RegisteredClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !parsed.Valid {
				logger.Warn("auth middleware: token validation failed", "error", err)
				writeUnauthorized(w, "invalid token")
				return
			}

			if claims.Subject == "" {
				logger.Warn("auth middleware: token has no subject")
				writeUnauthorized(w, "invalid token")
				return
			}

			ctx := internal.ContextWithUserID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearer(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"code": 401, "message": %q}`, message)
}

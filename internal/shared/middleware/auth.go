package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"fleet-dispatch/internal/shared/jwt"
	"fleet-dispatch/internal/shared/util"
)

const (
	RoleAdmin  = "admin"
	RoleDriver = "driver"
)

// Auth validates the bearer token and stores user_id, role and name in
// the request context. When requiredRole is non-empty, any other role
// is rejected with 403.
func Auth(manager *jwt.Manager, requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				util.WriteJSONError(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				util.WriteJSONError(w, "invalid Authorization format", http.StatusUnauthorized)
				return
			}

			claims, err := manager.ParseToken(parts[1])
			if err != nil {
				util.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
				util.WriteJSONError(w, "token expired", http.StatusUnauthorized)
				return
			}

			if requiredRole != "" && claims.Role != requiredRole {
				util.WriteJSONError(w, requiredRole+" access required", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), "user_id", claims.UserID)
			ctx = context.WithValue(ctx, "role", claims.Role)
			ctx = context.WithValue(ctx, "user_name", claims.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

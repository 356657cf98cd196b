package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/alcoholemia/alcoholemia/internal/api/models"
	"github.com/alcoholemia/alcoholemia/internal/auth"
)

// operatorKey is the context key for the authenticated operator name.
type operatorKey struct{}

// TokenValidator validates admin bearer tokens. *auth.JWTService satisfies it.
type TokenValidator interface {
	ValidateAdminToken(tokenString string) (*auth.AdminClaims, error)
}

// AdminAuth creates middleware that requires a valid admin JWT bearer token.
func AdminAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validator == nil {
				writeUnauthorized(w, r, "admin access is not configured")
				return
			}

			// Extract bearer token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, r, "missing authorization header")
				return
			}

			// Check for Bearer prefix (case-insensitive)
			const bearerPrefix = "Bearer "
			if len(authHeader) < len(bearerPrefix) ||
				!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
				writeUnauthorized(w, r, "invalid authorization header format")
				return
			}

			tokenString := authHeader[len(bearerPrefix):]
			if tokenString == "" {
				writeUnauthorized(w, r, "missing bearer token")
				return
			}

			claims, err := validator.ValidateAdminToken(tokenString)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					writeUnauthorized(w, r, "admin token has expired")
				case errors.Is(err, auth.ErrInsufficientRole):
					writeForbidden(w, r, "admin role required")
				case errors.Is(err, auth.ErrInvalidToken):
					writeUnauthorized(w, r, "invalid admin token")
				default:
					writeUnauthorized(w, r, "authentication failed")
				}
				return
			}

			ctx := context.WithValue(r.Context(), operatorKey{}, claims.Operator())
			Annotate(ctx, LogOperator, claims.Operator())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeUnauthorized writes a 401 Unauthorized response.
// This is implemented directly here to avoid import cycle with response package.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	traceID := GetRequestID(r.Context())
	problem := models.NewUnauthorized(traceID, detail)
	problem.Instance = r.URL.Path
	problem.Write(w)
}

func writeForbidden(w http.ResponseWriter, r *http.Request, detail string) {
	traceID := GetRequestID(r.Context())
	problem := models.NewForbidden(traceID, detail)
	problem.Instance = r.URL.Path
	problem.Write(w)
}

// GetOperator retrieves the authenticated operator name from the context.
// Returns an empty string if not authenticated.
func GetOperator(ctx context.Context) string {
	if name, ok := ctx.Value(operatorKey{}).(string); ok {
		return name
	}
	return ""
}

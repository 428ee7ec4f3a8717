package middleware

import (
	"context"
	"net/http"
	"strings"

	"quicknotes/internal/domain"
	"quicknotes/pkg/response"
	"quicknotes/pkg/token"
)

type contextKey string

const identityKey contextKey = "identity"

func AuthMiddleware(issuer *token.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			identity, err := issuer.Resolve(parts[1])
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity returns the identity the auth middleware resolved, or nil on
// unauthenticated routes.
func GetIdentity(r *http.Request) *domain.Identity {
	identity, ok := r.Context().Value(identityKey).(*domain.Identity)
	if !ok {
		return nil
	}
	return identity
}

package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Identity is the authenticated caller.
type Identity struct {
	UserID string
	Email  string
}

type identityKey struct{}

// UserResolver resolves the user behind a bearer token.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (userID, email string, err error)
}

// IdentityFromContext returns the caller identity from context, if present.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				writeErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
				return
			}

			userID, email, err := resolver.ResolveUser(r.Context(), token)
			if err != nil || userID == "" {
				writeErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid bearer token")
				return
			}

			ctx := WithIdentity(r.Context(), Identity{UserID: userID, Email: email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaticIdentity injects a fixed identity when auth is disabled.
func StaticIdentity(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), Identity{UserID: userID})))
		})
	}
}

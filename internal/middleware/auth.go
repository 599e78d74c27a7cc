package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/auth"
	"github.com/ChenHom/chronicle-of-the-uncle-pirates/internal/policy"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserKey is the context key for the authenticated user.
const UserKey contextKey = "user"

// UserResolver turns a validated token's LINE profile into the request
// user, looking up registration state and role. An unregistered identity
// resolves to a user with Registered false, not an error.
type UserResolver interface {
	ResolveUser(ctx context.Context, lineUserID, displayName, pictureURL string) (*policy.User, error)
}

// GetUser extracts the authenticated user from the context.
// Returns nil if not found.
func GetUser(ctx context.Context) *policy.User {
	user, _ := ctx.Value(UserKey).(*policy.User)
	return user
}

// RequireAuth validates the Bearer token and resolves the caller into a
// policy.User on the request context. Requests without a valid token get
// a 401; registration and role checks are the services' concern, so an
// unregistered but authenticated caller passes through.
func RequireAuth(jwtManager *auth.JWTManager, resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := bearerClaims(r, jwtManager)
			if err != nil {
				unauthorized(w, err)
				return
			}

			user, err := resolver.ResolveUser(r.Context(), claims.LineUserID, claims.DisplayName, claims.PictureURL)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves the user when a valid token is present but lets
// anonymous requests through untouched.
func OptionalAuth(jwtManager *auth.JWTManager, resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := bearerClaims(r, jwtManager)
			if err == nil {
				if user, rerr := resolver.ResolveUser(r.Context(), claims.LineUserID, claims.DisplayName, claims.PictureURL); rerr == nil {
					r = r.WithContext(context.WithValue(r.Context(), UserKey, user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerClaims(r *http.Request, jwtManager *auth.JWTManager) (*auth.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, auth.ErrMissingToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, auth.ErrInvalidToken
	}

	return jwtManager.Validate(parts[1])
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

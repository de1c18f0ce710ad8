package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const usernameContextKey = contextKey("username")

// Verifier is what the middleware needs from the session service.
type Verifier interface {
	Validate(token string) (string, bool)
}

// Middleware rejects requests without a valid Bearer session token and puts
// the session's username on the request context.
func Middleware(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, "Authorization header is required")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				writeUnauthorized(w, "Bearer token is required")
				return
			}

			username, ok := verifier.Validate(token)
			if !ok {
				writeUnauthorized(w, "invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), usernameContextKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContextUsername returns the authenticated username, if any.
func ContextUsername(ctx context.Context) string {
	if username, ok := ctx.Value(usernameContextKey).(string); ok {
		return username
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "UNAUTHORIZED",
		"message": message,
	})
}

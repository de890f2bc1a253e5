package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const (
	// SessionKey holds the raw session token of an authenticated request.
	SessionKey contextKey = "session"
	// LoginKey holds the login the session belongs to.
	LoginKey contextKey = "login"
)

// SessionResolver maps a session token to its login.
type SessionResolver interface {
	Resolve(ctx context.Context, session string) (string, error)
}

// SessionAuth requires "Authorization: Bearer <session>" and puts the session and its
// login into the request context.
func SessionAuth(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" || headerParts[1] == "" {
				writeError(w, "authorization header must be Bearer <session>", http.StatusUnauthorized)
				return
			}

			session := headerParts[1]
			login, err := resolver.Resolve(r.Context(), session)
			if err != nil {
				writeError(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			ctx = context.WithValue(ctx, LoginKey, login)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSessionFromContext(ctx context.Context) (string, bool) {
	session, ok := ctx.Value(SessionKey).(string)
	return session, ok
}

func GetLoginFromContext(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(LoginKey).(string)
	return login, ok
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

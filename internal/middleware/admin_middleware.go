package middleware

import (
	"crypto/subtle"
	"net/http"
)

// AdminTokenHeader carries the operator token for system lifecycle endpoints.
const AdminTokenHeader = "X-Admin-Token"

// AdminAuth rejects requests whose X-Admin-Token does not match token. An empty token
// disables the guarded routes entirely.
func AdminAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeError(w, "admin endpoints are disabled", http.StatusForbidden)
				return
			}
			given := r.Header.Get(AdminTokenHeader)
			if subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
				writeError(w, "invalid admin token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

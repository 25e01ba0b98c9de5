package daemon

import (
	"net/http"
	"strings"
)

// authMiddleware guards the local HTTP API with a shared bearer token. An
// empty token disables the check, which is the default for the loopback-only
// bind.
func authMiddleware(token string, next http.HandlerFunc) http.HandlerFunc {
	if token == "" {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		supplied, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || supplied != token {
			http.Error(w, `{"error":"missing or invalid bearer token"}`, http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

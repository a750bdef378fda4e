package auth

import (
	"net/http"
	"strings"
)

// RequireAuth lets a request through to next only if it carries a token that
// tokens accepts. A missing and an invalid token get the same response.
// Claims are not passed on to next.
func RequireAuth(tokens TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			unauthorized(w)
			return
		}

		if _, err := tokens.Verify(token); err != nil {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken returns the second space-separated part of the header value.
func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"message": "Unauthorized"})
}

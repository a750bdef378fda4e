package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	issuer := NewTokenIssuer(testSecret, 0)
	valid, err := issuer.Issue(NewID(), "a@b.com")
	require.NoError(t, err)
	wrongSigned, err := NewTokenIssuer([]byte("other"), 0).Issue(NewID(), "a@b.com")
	require.NoError(t, err)
	odd, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"anything": true}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		allowed bool
	}{
		{name: "no header"},
		{name: "scheme only", header: "Bearer"},
		{name: "garbage", header: "Bearer garbage"},
		{name: "wrongly signed", header: "Bearer " + wrongSigned},
		{name: "double space", header: "Bearer  " + valid},
		{name: "valid", header: "Bearer " + valid, allowed: true},
		{name: "any claims", header: "Bearer " + odd, allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				w.WriteHeader(http.StatusOK)
			})

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			RequireAuth(issuer, next).ServeHTTP(w, r)

			assert.Equal(t, tt.allowed, reached)
			if tt.allowed {
				assert.Equal(t, http.StatusOK, w.Code)
				return
			}
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"message":"Unauthorized"}`, w.Body.String())
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "", bearerToken(""))
	assert.Equal(t, "", bearerToken("Bearer"))
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("Token abc extra"))
}

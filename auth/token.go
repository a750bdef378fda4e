package auth

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Claims is what a verified token proves about its bearer.
type Claims struct {
	ID    ID
	Email string
}

// TokenIssuer signs and verifies HS256 bearer tokens with a server-held secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer for secret. A ttl of zero mints tokens
// that never expire; a positive ttl adds iat and exp claims and makes exp
// mandatory on verify.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(id ID, email string) (string, error) {
	claims := jwt.MapClaims{"id": string(id), "email": email}
	if t.ttl > 0 {
		now := t.now()
		claims["iat"] = now.Unix()
		claims["exp"] = now.Add(t.ttl).Unix()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %w", ErrDependency, err)
	}
	return token, nil
}

// Verify checks the token signature. Every failure is reported as
// ErrInvalidToken. A correctly signed token is accepted whatever claims it
// carries; claims that are not strings come back empty.
func (t *TokenIssuer) Verify(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	if t.ttl > 0 && !claims.VerifyExpiresAt(t.now().Unix(), true) {
		return Claims{}, ErrInvalidToken
	}

	id, _ := claims["id"].(string)
	email, _ := claims["email"].(string)
	return Claims{ID: ID(id), Email: email}, nil
}

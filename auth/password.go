package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordScheme decides how a password is kept at rest and how a presented
// password is checked against it.
type PasswordScheme interface {
	Seal(password string) (string, error)
	Matches(stored, presented string) bool
	// Hashed reports whether stored values are one-way hashes. Hashed values
	// cannot be looked up by equality.
	Hashed() bool
}

// ClearText stores passwords as given and compares them by equality.
// It keeps existing deployments working and is a hardening target.
type ClearText struct{}

func (ClearText) Seal(password string) (string, error) { return password, nil }

func (ClearText) Matches(stored, presented string) bool { return stored == presented }

func (ClearText) Hashed() bool { return false }

type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Seal(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrInvalidData
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (Bcrypt) Matches(stored, presented string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) == nil
}

func (Bcrypt) Hashed() bool { return true }

package auth

import (
	"errors"
	"time"

	"github.com/rs/xid"
)

// Identity is one registered account. Once stored it is never mutated.
type Identity struct {
	ID          ID
	Name        string
	Email       string
	Password    string // clear text unless a hashing PasswordScheme is configured
	DateOfBirth time.Time
	CreatedAt   time.Time
}

type ID string

var (
	ErrNotFound           = errors.New("identity not found")
	ErrExistingName       = errors.New("name in use")
	ErrInvalidData        = errors.New("invalid data")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrDependency         = errors.New("dependency failure")
)

// NewID returns a fresh durable identity id.
func NewID() ID {
	return ID(xid.New().String())
}

func isValidID(id string) bool {
	if _, err := xid.FromString(id); err != nil {
		return false
	}
	return true
}

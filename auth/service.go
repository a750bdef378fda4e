package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type service struct {
	identities Repository
	tokens     Issuer
	passwords  PasswordScheme
}

func NewService(identities Repository, tokens Issuer, passwords PasswordScheme) Service {
	if passwords == nil {
		passwords = ClearText{}
	}
	return &service{identities: identities, tokens: tokens, passwords: passwords}
}

// Register validates r and stores a new identity. The name pre-check and the
// completeness check run before the insert; the store's own uniqueness
// rule decides concurrent registrations of the same name.
func (svc *service) Register(ctx context.Context, r RegisterRequest) (ID, error) {
	reg, err := ValidateRegistration(r)
	if err != nil {
		return "", err
	}

	if err := svc.verifyNameNotInUse(ctx, reg.Name); err != nil {
		return "", err
	}

	if !reg.complete() {
		return "", ErrInvalidData
	}

	sealed, err := svc.passwords.Seal(reg.Password)
	if errors.Is(err, ErrInvalidData) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDependency, err)
	}

	identity, err := svc.identities.Insert(ctx, Identity{
		Name:        reg.Name,
		Email:       reg.Email,
		Password:    sealed,
		DateOfBirth: reg.DateOfBirth,
		CreatedAt:   time.Now().UTC(),
	})
	if errors.Is(err, ErrExistingName) {
		return "", ErrExistingName
	}
	if err != nil {
		return "", fmt.Errorf("%w: error saving identity: %w", ErrDependency, err)
	}

	return identity.ID, nil
}

// Login validates r and returns a signed token for the matching identity.
// An unknown email and a wrong password both yield ErrInvalidCredentials.
func (svc *service) Login(ctx context.Context, r LoginRequest) (string, error) {
	creds, err := ValidateLogin(r)
	if err != nil {
		return "", err
	}

	identity, err := svc.findByCredentials(ctx, creds)
	if errors.Is(err, ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("%w: find identity: %w", ErrDependency, err)
	}

	return svc.tokens.Issue(identity.ID, identity.Email)
}

func (svc *service) verifyNameNotInUse(ctx context.Context, name string) error {
	_, err := svc.identities.FindByName(ctx, name)
	switch {
	case err == nil:
		return ErrExistingName
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		return fmt.Errorf("%w: find by name: %w", ErrDependency, err)
	}
}

// findByCredentials matches by equality when passwords are stored as given,
// and by comparing against every identity with the email when they are hashed.
func (svc *service) findByCredentials(ctx context.Context, creds Credentials) (*Identity, error) {
	if !svc.passwords.Hashed() {
		return svc.identities.FindByCredentials(ctx, creds.Email, creds.Password)
	}

	candidates, err := svc.identities.FindByEmail(ctx, creds.Email)
	if err != nil {
		return nil, err
	}
	for _, c := range candidates {
		if svc.passwords.Matches(c.Password, creds.Password) {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

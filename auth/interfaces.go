package auth

import "context"

type Service interface {
	Register(ctx context.Context, r RegisterRequest) (ID, error)
	Login(ctx context.Context, r LoginRequest) (string, error)
}

// Repository persists identities. Insert assigns the ID and must reject a
// second identity with the same name with ErrExistingName. Lookups that find
// nothing return ErrNotFound.
type Repository interface {
	FindByName(ctx context.Context, name string) (*Identity, error)
	FindByCredentials(ctx context.Context, email, password string) (*Identity, error)
	FindByEmail(ctx context.Context, email string) ([]*Identity, error)
	Insert(ctx context.Context, identity Identity) (*Identity, error)
}

type TokenVerifier interface {
	Verify(token string) (Claims, error)
}

type Issuer interface {
	Issue(id ID, email string) (string, error)
}

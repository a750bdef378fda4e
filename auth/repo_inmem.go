package auth

import (
	"context"
	"sync"
	"time"
)

type identityRepository struct {
	mu         sync.RWMutex
	identities []*Identity
	byName     map[string]*Identity
}

// NewIdentityRepository returns an empty in-memory Repository safe for concurrent use.
func NewIdentityRepository() Repository {
	return &identityRepository{byName: map[string]*Identity{}}
}

func (repo *identityRepository) Insert(_ context.Context, identity Identity) (*Identity, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.byName[identity.Name]; ok {
		return nil, ErrExistingName
	}

	identity.ID = NewID()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = time.Now().UTC()
	}
	stored := identity
	repo.identities = append(repo.identities, &stored)
	repo.byName[stored.Name] = &stored

	out := stored
	return &out, nil
}

func (repo *identityRepository) FindByName(_ context.Context, name string) (*Identity, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if v, ok := repo.byName[name]; ok {
		out := *v
		return &out, nil
	}
	return nil, ErrNotFound
}

func (repo *identityRepository) FindByCredentials(_ context.Context, email, password string) (*Identity, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, v := range repo.identities {
		if v.Email == email && v.Password == password {
			out := *v
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (repo *identityRepository) FindByEmail(_ context.Context, email string) ([]*Identity, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var found []*Identity
	for _, v := range repo.identities {
		if v.Email == email {
			out := *v
			found = append(found, &out)
		}
	}
	return found, nil
}

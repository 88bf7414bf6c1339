package user

import (
	"context"
	"errors"

	"citeapi.org/internal/auth"
	"citeapi.org/internal/store"
)

// Store is the user persistence surface: the generic collection contract
// plus the email lookup the credential flows need.
type Store interface {
	store.Collection
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// MemStore backs Store with the in-process store. Email uniqueness is
// enforced on save.
type MemStore struct {
	col *store.MemoryCollection
}

var _ Store = (*MemStore)(nil)

func NewMemStore(mem *store.Memory) *MemStore {
	return &MemStore{col: mem.Collection("users", "email")}
}

func (s *MemStore) Find(ctx context.Context, filter store.Filter, limit, skip int) (store.Result, error) {
	return s.col.Find(ctx, filter, limit, skip)
}

func (s *MemStore) Get(ctx context.Context, id string) (store.Entity, error) {
	return s.col.Get(ctx, id)
}

func (s *MemStore) Save(ctx context.Context, e store.Entity) error {
	return s.col.Save(ctx, e)
}

func (s *MemStore) Delete(ctx context.Context, e store.Entity) (bool, error) {
	return s.col.Delete(ctx, e)
}

func (s *MemStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	entity, err := s.col.FindOne("email", email)
	if err != nil {
		return nil, err
	}
	u, ok := entity.(*User)
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

// AuthBridge adapts a Store to the narrow principal lookup the
// authentication service works against.
type AuthBridge struct {
	users Store
}

var _ auth.PrincipalStore = (*AuthBridge)(nil)

func NewAuthBridge(users Store) *AuthBridge {
	return &AuthBridge{users: users}
}

func (b *AuthBridge) FindByEmail(ctx context.Context, email string) (auth.Principal, string, error) {
	u, err := b.users.FindByEmail(ctx, email)
	if err != nil {
		return auth.Principal{}, "", err
	}
	return principalOf(u), u.PasswordHash, nil
}

func (b *AuthBridge) Find(ctx context.Context, id string) (auth.Principal, error) {
	entity, err := b.users.Get(ctx, id)
	if err != nil {
		return auth.Principal{}, err
	}
	u, ok := entity.(*User)
	if !ok {
		return auth.Principal{}, store.ErrNotFound
	}
	return principalOf(u), nil
}

func (b *AuthBridge) SetConfirmed(ctx context.Context, id string, confirmed bool) error {
	entity, err := b.users.Get(ctx, id)
	if err != nil {
		return err
	}
	u, ok := entity.(*User)
	if !ok {
		return store.ErrNotFound
	}
	if u.Confirmed == confirmed {
		return nil
	}
	u.Confirmed = confirmed
	if err := b.users.Save(ctx, u); err != nil {
		if errors.Is(err, store.ErrNotUnique) {
			return store.ErrNotFound
		}
		return err
	}
	return nil
}

func principalOf(u *User) auth.Principal {
	return auth.Principal{
		ID:        u.ID(),
		Email:     u.Email,
		Confirmed: u.Confirmed,
		Groups:    append([]string(nil), u.Groups...),
	}
}

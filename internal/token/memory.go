package token

import (
	"context"
	"sync"
)

// MemStore is the in-memory Store used by tests and dev mode.
type MemStore struct {
	mu     sync.Mutex
	tokens map[string]*Token
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{tokens: make(map[string]*Token)}
}

func (s *MemStore) Create(ctx context.Context, t *Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *t
	s.tokens[t.Key] = &copied
	return nil
}

func (s *MemStore) FindByKey(ctx context.Context, key string) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[key]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *MemStore) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[key]; !ok {
		return false, nil
	}
	delete(s.tokens, key)
	return true, nil
}

func (s *MemStore) DeleteByUser(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, t := range s.tokens {
		if t.UserID == userID {
			delete(s.tokens, key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemStore) Consume(ctx context.Context, key string) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[key]
	if !ok || t.Kind != KindConfirmation {
		return nil, ErrNotFound
	}
	delete(s.tokens, key)
	copied := *t
	return &copied, nil
}

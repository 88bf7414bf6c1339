// Package token implements the opaque credentials gating the API: session
// keys usable until revoked and single-use confirmation keys.
package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// Kind distinguishes the two token lifecycles.
type Kind string

const (
	// KindSession keys authenticate repeatedly until revoked, rotated or
	// cascaded away with their owner.
	KindSession Kind = "session"
	// KindConfirmation keys are consumed on first successful use.
	KindConfirmation Kind = "confirmation"
)

var (
	ErrNotFound = errors.New("token: not found")
)

const keyBytes = 32

// Token binds an unguessable key to exactly one principal.
type Token struct {
	Key       string
	UserID    string
	Kind      Kind
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is past its lifetime at now.
func (t *Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// NewKey draws a fresh key from the system's cryptographic random source.
// 32 random bytes hex-encoded: 64 characters, 256 bits of entropy.
func NewKey() (string, error) {
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// New issues a token of the given kind for a principal.
func New(userID string, kind Kind, now time.Time, ttl time.Duration) (*Token, error) {
	key, err := NewKey()
	if err != nil {
		return nil, err
	}
	t := &Token{
		Key:       key,
		UserID:    userID,
		Kind:      kind,
		CreatedAt: now,
	}
	if ttl > 0 {
		t.ExpiresAt = now.Add(ttl)
	}
	return t, nil
}

// Store is the persistence contract for token lifecycle operations.
type Store interface {
	Create(ctx context.Context, t *Token) error

	// FindByKey resolves a key to its token; unknown keys are ErrNotFound.
	FindByKey(ctx context.Context, key string) (*Token, error)

	// Delete revokes one key. Returns false when the key was already gone.
	Delete(ctx context.Context, key string) (bool, error)

	// DeleteByUser removes every token owned by a principal and reports
	// how many were removed. Called before the principal itself is
	// deleted so no token survives its owner.
	DeleteByUser(ctx context.Context, userID string) (int, error)

	// Consume atomically redeems a confirmation key: the token is looked
	// up and removed in one step, so a second redemption of the same key
	// observes ErrNotFound.
	Consume(ctx context.Context, key string) (*Token, error)
}

package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"citeapi.org/internal/obs"
	"citeapi.org/internal/token"
)

const (
	defaultSessionTTL      = 14 * 24 * time.Hour
	defaultConfirmationTTL = 24 * time.Hour
)

// Principal is the authenticated identity a request acts as, resolved from
// a presented token key.
type Principal struct {
	ID        string
	Email     string
	Confirmed bool
	Groups    []string
}

// PrincipalStore is the narrow user lookup the token flows need. The user
// package provides the concrete implementation.
type PrincipalStore interface {
	FindByEmail(ctx context.Context, email string) (Principal, string, error)
	Find(ctx context.Context, id string) (Principal, error)
	SetConfirmed(ctx context.Context, id string, confirmed bool) error
}

// Service implements the token authentication lifecycle: credential check
// and session issuance, repeated authentication, rotation, revocation,
// single-use confirmation and the cascade that keeps tokens from outliving
// their owner.
type Service struct {
	users  PrincipalStore
	tokens token.Store
	now    func() time.Time

	sessionTTL time.Duration
	confirmTTL time.Duration
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithSessionTTL configures session token lifetime.
func WithSessionTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithConfirmationTTL configures confirmation token lifetime.
func WithConfirmationTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.confirmTTL = ttl
		}
	}
}

// NewService constructs the authentication service.
func NewService(users PrincipalStore, tokens token.Store, opts ...ServiceOption) *Service {
	s := &Service{
		users:      users,
		tokens:     tokens,
		now:        time.Now,
		sessionTTL: defaultSessionTTL,
		confirmTTL: defaultConfirmationTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks credentials against the stored bcrypt hash and issues a
// fresh session token. Every failure collapses to ErrForbidden outward;
// the cause is preserved in the log line only.
func (s *Service) Login(ctx context.Context, email, password string) (*token.Token, Principal, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		s.reject("login", "missing credentials")
		return nil, Principal{}, ErrForbidden
	}
	principal, hash, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.reject("login", "unknown email")
		return nil, Principal{}, ErrForbidden
	}
	if err := VerifyPassword(hash, password); err != nil {
		s.reject("login", "password mismatch")
		return nil, Principal{}, ErrForbidden
	}
	t, err := token.New(principal.ID, token.KindSession, s.now().UTC(), s.sessionTTL)
	if err != nil {
		return nil, Principal{}, err
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return nil, Principal{}, err
	}
	return t, principal, nil
}

// Authenticate resolves a presented key to its principal. Unknown, expired
// and orphaned keys all come back as ErrForbidden.
func (s *Service) Authenticate(ctx context.Context, key string) (Principal, *token.Token, error) {
	t, err := s.tokens.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, token.ErrNotFound) {
			s.reject("authenticate", "unknown key")
			return Principal{}, nil, ErrForbidden
		}
		return Principal{}, nil, err
	}
	if t.Expired(s.now().UTC()) {
		_, _ = s.tokens.Delete(ctx, t.Key)
		s.reject("authenticate", "expired key")
		return Principal{}, nil, ErrForbidden
	}
	principal, err := s.users.Find(ctx, t.UserID)
	if err != nil {
		s.reject("authenticate", "orphaned key")
		return Principal{}, nil, ErrForbidden
	}
	return principal, t, nil
}

// Rotate revokes the presented session key and issues a replacement for
// the same principal.
func (s *Service) Rotate(ctx context.Context, key string) (*token.Token, error) {
	t, err := s.tokens.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, token.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if _, err := s.tokens.Delete(ctx, t.Key); err != nil {
		return nil, err
	}
	fresh, err := token.New(t.UserID, token.KindSession, s.now().UTC(), s.sessionTTL)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// Revoke deletes the presented session key. A false result means the key
// was already gone.
func (s *Service) Revoke(ctx context.Context, key string) (bool, error) {
	return s.tokens.Delete(ctx, key)
}

// IssueConfirmation issues a single-use confirmation token for the
// principal registered under email. Re-requesting replaces nothing: each
// call issues an independent key.
func (s *Service) IssueConfirmation(ctx context.Context, email string) (*token.Token, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	principal, _, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrNotFound
	}
	t, err := token.New(principal.ID, token.KindConfirmation, s.now().UTC(), s.confirmTTL)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Confirm consumes a confirmation key exactly once and marks its owner
// confirmed. A second presentation of the same key fails with ErrNotFound
// because consumption removed the token.
func (s *Service) Confirm(ctx context.Context, key string) (Principal, error) {
	t, err := s.tokens.Consume(ctx, key)
	if err != nil {
		if errors.Is(err, token.ErrNotFound) {
			return Principal{}, ErrNotFound
		}
		return Principal{}, err
	}
	if t.Expired(s.now().UTC()) {
		s.reject("confirm", "expired key")
		return Principal{}, ErrNotFound
	}
	if err := s.users.SetConfirmed(ctx, t.UserID, true); err != nil {
		return Principal{}, err
	}
	return s.users.Find(ctx, t.UserID)
}

// PurgeTokens removes every token owned by a principal. Resources deleting
// a principal run this first, so a failed principal delete never leaves
// orphaned tokens behind.
func (s *Service) PurgeTokens(ctx context.Context, userID string) error {
	_, err := s.tokens.DeleteByUser(ctx, userID)
	return err
}

// reject records the real cause of an authentication failure. Only the log
// carries the distinction; the response is a uniform Forbidden.
func (s *Service) reject(op, reason string) {
	obs.LogRequest(map[string]any{
		"ts":     s.now().UTC().Format(time.RFC3339Nano),
		"type":   "auth",
		"event":  "auth." + op + ".rejected",
		"reason": reason,
	})
}

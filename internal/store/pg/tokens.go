package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"citeapi.org/internal/token"
)

// Tokens persists session and confirmation keys.
type Tokens struct {
	db *sql.DB
}

var _ token.Store = (*Tokens)(nil)

func (s *Tokens) Create(ctx context.Context, t *token.Token) error {
	_, err := s.db.ExecContext(ctx, `
		insert into tokens (key, user_id, kind, created_at, expires_at)
		values ($1, $2, $3, $4, $5)
	`, t.Key, t.UserID, string(t.Kind), t.CreatedAt, expiresValue(t.ExpiresAt))
	return err
}

func (s *Tokens) FindByKey(ctx context.Context, key string) (*token.Token, error) {
	row := s.db.QueryRowContext(ctx, `
		select key, user_id, kind, created_at, expires_at
		from tokens where key = $1
	`, key)
	t, err := scanToken(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, token.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Tokens) Delete(ctx context.Context, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `delete from tokens where key = $1`, key)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return aff > 0, nil
}

func (s *Tokens) DeleteByUser(ctx context.Context, userID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `delete from tokens where user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(aff), nil
}

// Consume redeems a confirmation key in a single statement, so concurrent
// redemptions of the same key cannot both succeed.
func (s *Tokens) Consume(ctx context.Context, key string) (*token.Token, error) {
	row := s.db.QueryRowContext(ctx, `
		delete from tokens
		where key = $1 and kind = $2
		returning key, user_id, kind, created_at, expires_at
	`, key, string(token.KindConfirmation))
	t, err := scanToken(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, token.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func scanToken(row rowScanner) (*token.Token, error) {
	var (
		t       token.Token
		kind    string
		expires sql.NullTime
	)
	if err := row.Scan(&t.Key, &t.UserID, &kind, &t.CreatedAt, &expires); err != nil {
		return nil, err
	}
	t.Kind = token.Kind(kind)
	if expires.Valid {
		t.ExpiresAt = expires.Time
	}
	return &t, nil
}

func expiresValue(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

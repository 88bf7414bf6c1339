package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"citeapi.org/internal/ids"
	"citeapi.org/internal/store"
	"citeapi.org/internal/user"
)

// Users persists principals.
type Users struct {
	db *sql.DB
}

var _ user.Store = (*Users)(nil)

func (s *Users) Find(ctx context.Context, filter store.Filter, limit, skip int) (store.Result, error) {
	var (
		where []string
		args  []any
	)
	if len(filter.IDs) > 0 {
		where = append(where, fmt.Sprintf("id in (%s)", placeholders(len(args)+1, len(filter.IDs))))
		for _, id := range filter.IDs {
			args = append(args, id)
		}
	}
	for field, value := range filter.Equals {
		switch field {
		case "email", "confirmed":
			where = append(where, fmt.Sprintf("%s = $%d", field, len(args)+1))
			args = append(args, value)
		default:
			return store.Result{}, fmt.Errorf("%w: cannot filter users by %q", store.ErrValidation, field)
		}
	}
	clause := ""
	if len(where) > 0 {
		clause = " where " + strings.Join(where, " and ")
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `select count(*) from users`+clause, args...).Scan(&count); err != nil {
		return store.Result{}, err
	}

	query := fmt.Sprintf(`
		select id, email, password_hash, groups, confirmed, created_at
		from users%s
		order by id
		limit $%d offset $%d
	`, clause, len(args)+1, len(args)+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, skip)...)
	if err != nil {
		return store.Result{}, err
	}
	defer rows.Close()

	result := store.Result{Count: count}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return store.Result{}, err
		}
		result.Items = append(result.Items, u)
	}
	return result, rows.Err()
}

func (s *Users) Get(ctx context.Context, id string) (store.Entity, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, email, password_hash, groups, confirmed, created_at
		from users where id = $1
	`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Users) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, email, password_hash, groups, confirmed, created_at
		from users where email = $1
	`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Users) Save(ctx context.Context, e store.Entity) error {
	if err := e.Validate(); err != nil {
		return err
	}
	u, ok := e.(*user.User)
	if !ok {
		return fmt.Errorf("%w: not a user entity", store.ErrValidation)
	}
	groups, err := json.Marshal(u.Groups)
	if err != nil {
		return err
	}
	if u.ID() == "" {
		u.SetID(ids.New())
		_, err = s.db.ExecContext(ctx, `
			insert into users (id, email, password_hash, groups, confirmed, created_at)
			values ($1, $2, $3, $4, $5, $6)
		`, u.ID(), u.Email, u.PasswordHash, groups, u.Confirmed, u.CreatedAt)
	} else {
		_, err = s.db.ExecContext(ctx, `
			update users
			set email = $2, password_hash = $3, groups = $4, confirmed = $5
			where id = $1
		`, u.ID(), u.Email, u.PasswordHash, groups, u.Confirmed)
	}
	if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
		return store.ErrNotUnique
	}
	return err
}

func (s *Users) Delete(ctx context.Context, e store.Entity) (bool, error) {
	res, err := s.db.ExecContext(ctx, `delete from users where id = $1`, e.ID())
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return aff > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var (
		u      user.User
		id     string
		groups []byte
	)
	if err := row.Scan(&id, &u.Email, &u.PasswordHash, &groups, &u.Confirmed, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.SetID(id)
	if len(groups) > 0 {
		if err := json.Unmarshal(groups, &u.Groups); err != nil {
			return nil, err
		}
	}
	return &u, nil
}

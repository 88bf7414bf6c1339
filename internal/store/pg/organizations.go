package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"citeapi.org/internal/ids"
	"citeapi.org/internal/organization"
	"citeapi.org/internal/store"
)

// Organizations persists cited institutions and publishers.
type Organizations struct {
	db *sql.DB
}

var _ store.Collection = (*Organizations)(nil)

func (s *Organizations) Find(ctx context.Context, filter store.Filter, limit, skip int) (store.Result, error) {
	if len(filter.Equals) > 0 {
		for field := range filter.Equals {
			return store.Result{}, fmt.Errorf("%w: cannot filter organizations by %q", store.ErrValidation, field)
		}
	}
	var (
		where []string
		args  []any
	)
	if len(filter.IDs) > 0 {
		where = append(where, fmt.Sprintf("id in (%s)", placeholders(1, len(filter.IDs))))
		for _, id := range filter.IDs {
			args = append(args, id)
		}
	}
	clause := ""
	if len(where) > 0 {
		clause = " where " + strings.Join(where, " and ")
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `select count(*) from organizations`+clause, args...).Scan(&count); err != nil {
		return store.Result{}, err
	}

	query := fmt.Sprintf(`
		select id, name, description, region
		from organizations%s
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
		o, err := scanOrganization(rows)
		if err != nil {
			return store.Result{}, err
		}
		result.Items = append(result.Items, o)
	}
	return result, rows.Err()
}

func (s *Organizations) Get(ctx context.Context, id string) (store.Entity, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, name, description, region
		from organizations where id = $1
	`, id)
	o, err := scanOrganization(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Organizations) Save(ctx context.Context, e store.Entity) error {
	if err := e.Validate(); err != nil {
		return err
	}
	o, ok := e.(*organization.Organization)
	if !ok {
		return fmt.Errorf("%w: not an organization entity", store.ErrValidation)
	}
	var err error
	if o.ID() == "" {
		o.SetID(ids.New())
		_, err = s.db.ExecContext(ctx, `
			insert into organizations (id, name, description, region)
			values ($1, $2, $3, $4)
		`, o.ID(), o.Name, nullIfEmpty(o.Description), nullIfEmpty(o.Region))
	} else {
		_, err = s.db.ExecContext(ctx, `
			update organizations
			set name = $2, description = $3, region = $4
			where id = $1
		`, o.ID(), o.Name, nullIfEmpty(o.Description), nullIfEmpty(o.Region))
	}
	if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
		return store.ErrNotUnique
	}
	return err
}

func (s *Organizations) Delete(ctx context.Context, e store.Entity) (bool, error) {
	res, err := s.db.ExecContext(ctx, `delete from organizations where id = $1`, e.ID())
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return aff > 0, nil
}

func scanOrganization(row rowScanner) (*organization.Organization, error) {
	var (
		o                   organization.Organization
		id, name            string
		description, region sql.NullString
	)
	if err := row.Scan(&id, &name, &description, &region); err != nil {
		return nil, err
	}
	o.SetID(id)
	o.Name = name
	o.Description = description.String
	o.Region = region.String
	return &o, nil
}

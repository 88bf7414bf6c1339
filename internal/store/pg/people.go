package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"citeapi.org/internal/ids"
	"citeapi.org/internal/person"
	"citeapi.org/internal/store"
)

// People persists cited individuals.
type People struct {
	db *sql.DB
}

var _ store.Collection = (*People)(nil)

func (s *People) Find(ctx context.Context, filter store.Filter, limit, skip int) (store.Result, error) {
	if len(filter.Equals) > 0 {
		for field := range filter.Equals {
			return store.Result{}, fmt.Errorf("%w: cannot filter people by %q", store.ErrValidation, field)
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
	if err := s.db.QueryRowContext(ctx, `select count(*) from people`+clause, args...).Scan(&count); err != nil {
		return store.Result{}, err
	}

	query := fmt.Sprintf(`
		select id, title, first_name, middle_name, last_name, full_name, description, birth_year, death_year
		from people%s
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
		p, err := scanPerson(rows)
		if err != nil {
			return store.Result{}, err
		}
		result.Items = append(result.Items, p)
	}
	return result, rows.Err()
}

func (s *People) Get(ctx context.Context, id string) (store.Entity, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, title, first_name, middle_name, last_name, full_name, description, birth_year, death_year
		from people where id = $1
	`, id)
	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *People) Save(ctx context.Context, e store.Entity) error {
	if err := e.Validate(); err != nil {
		return err
	}
	p, ok := e.(*person.Person)
	if !ok {
		return fmt.Errorf("%w: not a person entity", store.ErrValidation)
	}
	var err error
	if p.ID() == "" {
		p.SetID(ids.New())
		_, err = s.db.ExecContext(ctx, `
			insert into people (id, title, first_name, middle_name, last_name, full_name, description, birth_year, death_year)
			values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, p.ID(), nullIfEmpty(p.Name.Title), nullIfEmpty(p.Name.First), nullIfEmpty(p.Name.Middle),
			nullIfEmpty(p.Name.Last), nullIfEmpty(p.Name.Full), nullIfEmpty(p.Description),
			nullIfZero(p.BirthYear), nullIfZero(p.DeathYear))
	} else {
		_, err = s.db.ExecContext(ctx, `
			update people
			set title = $2, first_name = $3, middle_name = $4, last_name = $5, full_name = $6,
			    description = $7, birth_year = $8, death_year = $9
			where id = $1
		`, p.ID(), nullIfEmpty(p.Name.Title), nullIfEmpty(p.Name.First), nullIfEmpty(p.Name.Middle),
			nullIfEmpty(p.Name.Last), nullIfEmpty(p.Name.Full), nullIfEmpty(p.Description),
			nullIfZero(p.BirthYear), nullIfZero(p.DeathYear))
	}
	if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
		return store.ErrNotUnique
	}
	return err
}

func (s *People) Delete(ctx context.Context, e store.Entity) (bool, error) {
	res, err := s.db.ExecContext(ctx, `delete from people where id = $1`, e.ID())
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return aff > 0, nil
}

func scanPerson(row rowScanner) (*person.Person, error) {
	var (
		p                                person.Person
		id                               string
		title, first, middle, last, full sql.NullString
		description                      sql.NullString
		birth, death                     sql.NullInt64
	)
	if err := row.Scan(&id, &title, &first, &middle, &last, &full, &description, &birth, &death); err != nil {
		return nil, err
	}
	p.SetID(id)
	p.Name = person.Name{
		Title:  title.String,
		First:  first.String,
		Middle: middle.String,
		Last:   last.String,
		Full:   full.String,
	}
	p.Description = description.String
	p.BirthYear = int(birth.Int64)
	p.DeathYear = int(death.Int64)
	return &p, nil
}

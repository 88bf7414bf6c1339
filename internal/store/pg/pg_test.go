package pg

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"citeapi.org/internal/organization"
	"citeapi.org/internal/store"
	"citeapi.org/internal/token"
	"citeapi.org/internal/user"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db), mock
}

func userRows(id, email string) *sqlmock.Rows {
	groups, _ := json.Marshal([]string{user.GroupUsers})
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "groups", "confirmed", "created_at"}).
		AddRow(id, email, "$2a$10$hash", groups, false, time.Now().UTC())
}

func TestUsersGet(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("(?s)select id, email, password_hash, groups, confirmed, created_at.*from users where id").
		WithArgs("u1").
		WillReturnRows(userRows("u1", "sam@example.com"))

	entity, err := s.Users().Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	u, ok := entity.(*user.User)
	if !ok || u.Email != "sam@example.com" || len(u.Groups) != 1 {
		t.Fatalf("entity = %+v", entity)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUsersGetNotFound(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("(?s)select id, email, password_hash, groups, confirmed, created_at.*from users where id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "groups", "confirmed", "created_at"}))

	if _, err := s.Users().Get(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want store.ErrNotFound", err)
	}
}

func TestUsersSaveInsertAssignsID(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("insert into users").
		WithArgs(sqlmock.AnyArg(), "sam@example.com", sqlmock.AnyArg(), sqlmock.AnyArg(), false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	u := &user.User{}
	if err := u.Deserialize(map[string]any{"email": "sam@example.com", "password": "Str0ngPass"}); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if err := s.Users().Save(context.Background(), u); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if u.ID() == "" {
		t.Fatal("save must assign an id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUsersSaveMapsUniqueViolation(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("insert into users").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	u := &user.User{}
	_ = u.Deserialize(map[string]any{"email": "sam@example.com", "password": "Str0ngPass"})
	if err := s.Users().Save(context.Background(), u); !errors.Is(err, store.ErrNotUnique) {
		t.Fatalf("err = %v, want store.ErrNotUnique", err)
	}
}

func TestUsersFindPagesAndCounts(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(`select count\(\*\) from users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery("(?s)select id, email, password_hash, groups, confirmed, created_at.*from users.*order by id").
		WithArgs(2, 1).
		WillReturnRows(userRows("u2", "a@example.com"))

	result, err := s.Users().Find(context.Background(), store.Filter{}, 2, 1)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if result.Count != 7 || len(result.Items) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUsersFindRejectsUnknownFilter(t *testing.T) {
	s, _ := newMock(t)
	_, err := s.Users().Find(context.Background(), store.Filter{Equals: map[string]any{"groups": "x"}}, 10, 0)
	if !errors.Is(err, store.ErrValidation) {
		t.Fatalf("err = %v, want store.ErrValidation", err)
	}
}

func TestOrganizationsGet(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("(?s)select id, name, description, region.*from organizations where id").
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "region"}).
			AddRow("o1", "Acme Press", nil, "US"))

	entity, err := s.Organizations().Get(context.Background(), "o1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	o, ok := entity.(*organization.Organization)
	if !ok || o.Name != "Acme Press" || o.Region != "US" {
		t.Fatalf("entity = %+v", entity)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrganizationsSaveValidatesRegion(t *testing.T) {
	s, _ := newMock(t)
	o := &organization.Organization{Name: "Acme Press", Region: "ABC"}
	if err := s.Organizations().Save(context.Background(), o); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("err = %v, want store.ErrValidation", err)
	}
}

func TestTokensConsumeDeletesAndReturns(t *testing.T) {
	s, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery("(?s)delete from tokens.*returning key, user_id, kind, created_at, expires_at").
		WithArgs("abc", string(token.KindConfirmation)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "user_id", "kind", "created_at", "expires_at"}).
			AddRow("abc", "u1", string(token.KindConfirmation), now, now.Add(time.Hour)))

	got, err := s.Tokens().Consume(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if got.UserID != "u1" || got.Kind != token.KindConfirmation {
		t.Fatalf("token = %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokensConsumeMissingKey(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("(?s)delete from tokens.*returning key, user_id, kind, created_at, expires_at").
		WithArgs("missing", string(token.KindConfirmation)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "user_id", "kind", "created_at", "expires_at"}))

	if _, err := s.Tokens().Consume(context.Background(), "missing"); !errors.Is(err, token.ErrNotFound) {
		t.Fatalf("err = %v, want token.ErrNotFound", err)
	}
}

func TestTokensDeleteByUser(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("delete from tokens where user_id").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := s.Tokens().DeleteByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("DeleteByUser: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}
}

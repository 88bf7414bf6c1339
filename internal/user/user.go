// Package user defines the principal entity and its API resources.
package user

import (
	"fmt"
	"time"

	"citeapi.org/internal/auth"
	"citeapi.org/internal/store"
)

// Groups a principal may belong to.
const (
	GroupUsers = "users"
	GroupStaff = "staff"
	GroupAdmin = "admin"
)

// KnownGroup reports whether g is one of the defined groups.
func KnownGroup(g string) bool {
	return g == GroupUsers || g == GroupStaff || g == GroupAdmin
}

// User is a registered principal. The password hash never appears in the
// serialized representation.
type User struct {
	id string

	Email        string
	PasswordHash string
	Groups       []string
	Confirmed    bool
	CreatedAt    time.Time
}

var _ store.Entity = (*User)(nil)

func (u *User) ID() string      { return u.id }
func (u *User) SetID(id string) { u.id = id }

func (u *User) Clone() store.Entity {
	dup := *u
	dup.Groups = append([]string(nil), u.Groups...)
	return &dup
}

// Serialize renders the user for the wire. A non-empty fields list
// projects the output; the id always survives projection.
func (u *User) Serialize(fields []string) map[string]any {
	full := map[string]any{
		"id":        u.id,
		"email":     u.Email,
		"groups":    append([]string(nil), u.Groups...),
		"confirmed": u.Confirmed,
	}
	if !u.CreatedAt.IsZero() {
		full["created_at"] = u.CreatedAt.UTC().Format(time.RFC3339)
	}
	return project(full, fields)
}

// Deserialize applies validated request fields to the user. Only the keys
// present in data change; a "password" entry is hashed, never stored raw.
func (u *User) Deserialize(data map[string]any) error {
	if v, ok := data["email"].(string); ok {
		u.Email = v
	}
	if v, ok := data["password"].(string); ok {
		hash, err := auth.HashPassword(v)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}
	if v, ok := data["groups"].([]string); ok {
		u.Groups = append([]string(nil), v...)
	}
	if v, ok := data["confirmed"].(bool); ok {
		u.Confirmed = v
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	return nil
}

// Validate is the low-level persistence check run on save.
func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("%w: email is required", store.ErrValidation)
	}
	if u.PasswordHash == "" {
		return fmt.Errorf("%w: password hash is required", store.ErrValidation)
	}
	for _, g := range u.Groups {
		if !KnownGroup(g) {
			return fmt.Errorf("%w: unknown group %q", store.ErrValidation, g)
		}
	}
	return nil
}

func project(full map[string]any, fields []string) map[string]any {
	if len(fields) == 0 {
		return full
	}
	out := map[string]any{"id": full["id"]}
	for _, f := range fields {
		if v, ok := full[f]; ok {
			out[f] = v
		}
	}
	return out
}

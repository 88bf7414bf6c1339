package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("store: not found")
	ErrNotUnique  = errors.New("store: duplicate unique field")
	ErrValidation = errors.New("store: entity failed low-level validation")
)

// Filter narrows a Find call. The zero Filter matches every entity.
type Filter struct {
	// IDs restricts matches to entities whose identifier is in the set.
	IDs []string

	// Equals restricts matches on top-level serialized fields.
	Equals map[string]any
}

// Entity is the serializable unit a collection persists.
type Entity interface {
	ID() string
	SetID(id string)

	// Serialize renders the entity as a nested mapping. A non-empty fields
	// list projects the output to those top-level attributes.
	Serialize(fields []string) map[string]any

	// Deserialize restores the entity from a nested mapping.
	Deserialize(data map[string]any) error

	// Validate is the low-level persistence check run on Save, after any
	// schema validation has already passed.
	Validate() error

	// Clone returns a detached copy. In-memory collections hand out clones
	// so a caller mutating a fetched entity cannot touch stored state until
	// the entity is saved back.
	Clone() Entity
}

// Result is the outcome of a Find: the page of entities plus the total
// match count with pagination ignored.
type Result struct {
	Items []Entity
	Count int
}

// Collection is the persistence collaborator consumed by API resources.
type Collection interface {
	Find(ctx context.Context, filter Filter, limit, skip int) (Result, error)
	Get(ctx context.Context, id string) (Entity, error)
	Save(ctx context.Context, e Entity) error
	Delete(ctx context.Context, e Entity) (bool, error)
}

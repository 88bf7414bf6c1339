package resource

import (
	"context"
	"errors"
	"fmt"

	"citeapi.org/internal/schema"
	"citeapi.org/internal/store"
)

// Document is a validated resource bound to one identified entity in a
// persistence collection. Documents are resolved per request by their
// parent collection and never attached to the tree.
type Document struct {
	Validated

	col     store.Collection
	id      string
	cascade func(ctx context.Context, id string) error
}

var documentDefaults = map[schema.Method]schema.Constructor{
	schema.MethodGet: schema.RetrieveDocument,
}

func newDocument(parent Resource, id string, col store.Collection, acl Policy, overrides map[schema.Method]schema.Constructor, cascade func(ctx context.Context, id string) error) (*Document, error) {
	v, err := newValidated(parent, id, acl, documentDefaults)
	if err != nil {
		return nil, err
	}
	d := &Document{Validated: v, col: col, id: id, cascade: cascade}
	for m, ctor := range overrides {
		d.setSchema(m, ctor)
	}
	return d, nil
}

// EntityID returns the identifier of the entity the document is bound to.
func (d *Document) EntityID() string { return d.id }

// Retrieve fetches the bound entity, projecting the serialized output to
// the requested fields.
func (d *Document) Retrieve(ctx context.Context, query map[string]any) (map[string]any, error) {
	validated, errs := d.Validate(schema.MethodGet, query, true)
	if errs != nil {
		return nil, errs
	}
	var fields []string
	if raw, ok := validated["fields"]; ok {
		fields, _ = raw.([]string)
	}
	entity, err := d.col.Get(ctx, d.id)
	if err != nil {
		return nil, err
	}
	return entity.Serialize(fields), nil
}

// Update validates data against the PUT schema, applies the validated
// fields to the fetched entity and persists the result.
func (d *Document) Update(ctx context.Context, data map[string]any) (map[string]any, error) {
	validated, errs := d.Validate(schema.MethodPut, data, true)
	if errs != nil {
		return nil, errs
	}
	entity, err := d.col.Get(ctx, d.id)
	if err != nil {
		return nil, err
	}
	if err := entity.Deserialize(validated); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	if err := d.col.Save(ctx, entity); err != nil {
		return nil, err
	}
	return entity.Serialize(nil), nil
}

// Delete removes the bound entity, running the dependent-entity cascade
// first so dependents can never outlive their owner. A false result means
// the entity was already gone; the mediator maps that to not-found.
func (d *Document) Delete(ctx context.Context) (bool, error) {
	entity, err := d.col.Get(ctx, d.id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if d.cascade != nil {
		if err := d.cascade(ctx, d.id); err != nil {
			return false, err
		}
	}
	return d.col.Delete(ctx, entity)
}

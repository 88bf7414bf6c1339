package resource

import (
	"context"
	"fmt"

	"citeapi.org/internal/ids"
	"citeapi.org/internal/schema"
	"citeapi.org/internal/store"
)

// Collection is a validated resource bound to a persistence collection.
// It creates and lists entities, and resolves id-shaped path segments to
// request-scoped Document resources.
type Collection struct {
	Validated

	col     store.Collection
	factory func() store.Entity

	docACL       Policy
	docOverrides map[schema.Method]schema.Constructor
	docCascade   func(ctx context.Context, id string) error

	afterCreate func(ctx context.Context, created map[string]any) error
}

// CollectionOption configures a collection at construction time.
type CollectionOption func(*Collection)

// WithSchema overrides the collection's schema for one method.
func WithSchema(m schema.Method, ctor schema.Constructor) CollectionOption {
	return func(c *Collection) { c.setSchema(m, ctor) }
}

// WithACL replaces the collection's authorization policy.
func WithACL(p Policy) CollectionOption {
	return func(c *Collection) { c.acl = p }
}

// WithDocumentSchema overrides the schema for one method on documents the
// collection resolves.
func WithDocumentSchema(m schema.Method, ctor schema.Constructor) CollectionOption {
	return func(c *Collection) {
		if c.docOverrides == nil {
			c.docOverrides = make(map[schema.Method]schema.Constructor)
		}
		c.docOverrides[m] = ctor
	}
}

// WithDocumentACL replaces the policy on resolved documents.
func WithDocumentACL(p Policy) CollectionOption {
	return func(c *Collection) { c.docACL = p }
}

// WithAfterCreate registers a hook run after a new entity is persisted,
// e.g. issuing a confirmation token for a freshly registered principal.
func WithAfterCreate(fn func(ctx context.Context, created map[string]any) error) CollectionOption {
	return func(c *Collection) { c.afterCreate = fn }
}

// WithDocumentCascade registers dependent-entity cleanup run before a
// resolved document's entity is deleted. The cascade runs first so a
// failed principal delete never leaves orphaned dependents.
func WithDocumentCascade(fn func(ctx context.Context, id string) error) CollectionOption {
	return func(c *Collection) { c.docCascade = fn }
}

var collectionDefaults = map[schema.Method]schema.Constructor{
	schema.MethodGet: schema.RetrieveCollection,
}

// NewCollection binds a collection resource to its backing store. The
// default policy mirrors the API-wide baseline: anyone may list, creating
// requires authentication.
func NewCollection(parent Resource, name string, col store.Collection, factory func() store.Entity, opts ...CollectionOption) (*Collection, error) {
	acl := Policy{
		CapRetrieve: Everyone,
		CapCreate:   Authenticated,
	}
	v, err := newValidated(parent, name, acl, collectionDefaults)
	if err != nil {
		return nil, err
	}
	c := &Collection{
		Validated: v,
		col:       col,
		factory:   factory,
		docACL: Policy{
			CapRetrieve: Everyone,
			CapUpdate:   Authenticated,
			CapDelete:   Authenticated,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Create validates data against the POST schema and persists a new entity,
// returning its serialized representation including the generated id.
func (c *Collection) Create(ctx context.Context, data map[string]any) (map[string]any, error) {
	validated, errs := c.Validate(schema.MethodPost, data, true)
	if errs != nil {
		return nil, errs
	}
	entity := c.factory()
	if err := entity.Deserialize(validated); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	if err := c.col.Save(ctx, entity); err != nil {
		return nil, err
	}
	created := entity.Serialize(nil)
	if c.afterCreate != nil {
		if err := c.afterCreate(ctx, created); err != nil {
			return nil, err
		}
	}
	return created, nil
}

// Retrieve validates the query against the GET schema, extracts the common
// fields/limit/skip parameters, translates an ids filter into an
// id-membership predicate and pages through the backing store.
func (c *Collection) Retrieve(ctx context.Context, query map[string]any) (map[string]any, error) {
	validated, errs := c.Validate(schema.MethodGet, query, true)
	if errs != nil {
		return nil, errs
	}
	fields, limit, skip := commons(validated)

	filter := store.Filter{}
	if raw, ok := validated["ids"]; ok {
		delete(validated, "ids")
		filter.IDs, _ = raw.([]string)
	}
	if len(validated) > 0 {
		filter.Equals = validated
	}

	result, err := c.col.Find(ctx, filter, limit, skip)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(result.Items))
	for _, entity := range result.Items {
		items = append(items, entity.Serialize(fields))
	}
	return map[string]any{
		"count": result.Count,
		"limit": limit,
		"skip":  skip,
		"items": items,
	}, nil
}

// Resolve turns an id-shaped path segment into a request-scoped document
// resource. Existence is checked at operation time, not at traversal time.
func (c *Collection) Resolve(name string) (Resource, error) {
	if !ids.Valid(name) {
		return nil, ErrNoChild
	}
	return newDocument(c, name, c.col, c.docACL, c.docOverrides, c.docCascade)
}

// commons pops the three shared collection parameters out of a validated
// query, applying the schema defaults when absent.
func commons(query map[string]any) (fields []string, limit, skip int) {
	limit, skip = schema.DefaultLimit, schema.DefaultSkip
	if raw, ok := query["fields"]; ok {
		delete(query, "fields")
		fields, _ = raw.([]string)
	}
	if raw, ok := query["limit"]; ok {
		delete(query, "limit")
		if n, ok := raw.(int); ok {
			limit = n
		}
	}
	if raw, ok := query["skip"]; ok {
		delete(query, "skip")
		if n, ok := raw.(int); ok {
			skip = n
		}
	}
	return fields, limit, skip
}

var _ Resolver = (*Collection)(nil)

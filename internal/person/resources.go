package person

import (
	"citeapi.org/internal/resource"
	"citeapi.org/internal/schema"
	"citeapi.org/internal/store"
)

// NewCollection builds the people collection resource. The API-wide
// baseline policy applies: anyone may read, writing requires an
// authenticated caller.
func NewCollection(parent resource.Resource, people store.Collection) (*resource.Collection, error) {
	return resource.NewCollection(parent, "people", people,
		func() store.Entity { return &Person{} },
		resource.WithSchema(schema.MethodPost, createSchema),
		resource.WithDocumentSchema(schema.MethodPut, createSchema),
	)
}

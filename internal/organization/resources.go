package organization

import (
	"citeapi.org/internal/resource"
	"citeapi.org/internal/schema"
	"citeapi.org/internal/store"
)

// NewCollection builds the organizations collection resource. The API-wide
// baseline policy applies: anyone may read, writing requires an
// authenticated caller.
func NewCollection(parent resource.Resource, orgs store.Collection) (*resource.Collection, error) {
	return resource.NewCollection(parent, "organizations", orgs,
		func() store.Entity { return &Organization{} },
		resource.WithSchema(schema.MethodPost, createSchema),
		resource.WithDocumentSchema(schema.MethodPut, createSchema),
	)
}

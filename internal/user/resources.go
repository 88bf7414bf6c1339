package user

import (
	"context"

	"citeapi.org/internal/auth"
	"citeapi.org/internal/resource"
	"citeapi.org/internal/schema"
	"citeapi.org/internal/store"
)

// NewCollection builds the users collection resource. Signup is open to
// everyone; anything else on users requires an authenticated caller.
// Deleting a user purges their tokens first, and a fresh signup gets a
// confirmation token issued right away.
func NewCollection(parent resource.Resource, users Store, svc *auth.Service) (*resource.Collection, error) {
	return resource.NewCollection(parent, "users", users,
		func() store.Entity { return &User{} },
		resource.WithACL(resource.Policy{
			resource.CapCreate:   resource.Everyone,
			resource.CapRetrieve: resource.Authenticated,
		}),
		resource.WithSchema(schema.MethodPost, createSchema),
		resource.WithSchema(schema.MethodGet, retrieveSchema),
		resource.WithDocumentACL(resource.Policy{
			resource.CapRetrieve: resource.Authenticated,
			resource.CapUpdate:   resource.Authenticated,
			resource.CapDelete:   resource.Authenticated,
		}),
		resource.WithDocumentSchema(schema.MethodPut, createSchema),
		resource.WithDocumentCascade(func(ctx context.Context, id string) error {
			return svc.PurgeTokens(ctx, id)
		}),
		resource.WithAfterCreate(func(ctx context.Context, created map[string]any) error {
			email, _ := created["email"].(string)
			_, err := svc.IssueConfirmation(ctx, email)
			return err
		}),
	)
}

package auth

import (
	"context"
	"time"

	"citeapi.org/internal/resource"
	"citeapi.org/internal/schema"
)

// loginSchema validates session issuance: credentials in the body.
func loginSchema(m schema.Method) *schema.Form {
	return schema.New(m, map[string]schema.Field{
		"email": {
			RequiredOn: []schema.Method{schema.MethodPost},
			Coerce:     schema.String,
			Validators: []schema.Validator{schema.Email},
		},
		"password": {
			RequiredOn: []schema.Method{schema.MethodPost},
			Coerce:     schema.String,
			Validators: []schema.Validator{schema.Length(1, 64)},
		},
	})
}

// confirmationSchema validates both confirmation operations: POST carries
// the address to reissue for, PUT carries the key being consumed.
func confirmationSchema(m schema.Method) *schema.Form {
	return schema.New(m, map[string]schema.Field{
		"email": {
			RequiredOn: []schema.Method{schema.MethodPost},
			Coerce:     schema.String,
			Validators: []schema.Validator{schema.Email},
		},
		"key": {
			RequiredOn: []schema.Method{schema.MethodPut},
			Coerce:     schema.String,
			Validators: []schema.Validator{schema.Key},
		},
	})
}

// Session is the resource behind the authentication endpoint: POST logs
// in, GET answers who-am-I, PUT rotates the presented key, DELETE logs
// out. Everything except login requires an authenticated caller.
type Session struct {
	resource.Validated
	svc *Service
}

// NewSession builds the session resource.
func NewSession(parent resource.Resource, svc *Service) (*Session, error) {
	acl := resource.Policy{
		resource.CapCreate:   resource.Everyone,
		resource.CapRetrieve: resource.Authenticated,
		resource.CapUpdate:   resource.Authenticated,
		resource.CapDelete:   resource.Authenticated,
	}
	v, err := resource.NewValidated(parent, "auth", acl, map[schema.Method]schema.Constructor{
		schema.MethodPost: loginSchema,
	})
	if err != nil {
		return nil, err
	}
	return &Session{Validated: v, svc: svc}, nil
}

// Create checks credentials and issues a session token.
func (s *Session) Create(ctx context.Context, data map[string]any) (map[string]any, error) {
	validated, errs := s.Validate(schema.MethodPost, data, true)
	if errs != nil {
		return nil, errs
	}
	email, _ := validated["email"].(string)
	password, _ := validated["password"].(string)
	t, principal, err := s.svc.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return sessionBody(t.Key, t.ExpiresAt, principal), nil
}

// Retrieve reports the authenticated principal behind the presented key.
func (s *Session) Retrieve(ctx context.Context, query map[string]any) (map[string]any, error) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}
	key, _ := KeyFromContext(ctx)
	return sessionBody(key, time.Time{}, principal), nil
}

// Update rotates the presented key: the old one is revoked, a fresh one
// issued for the same principal.
func (s *Session) Update(ctx context.Context, data map[string]any) (map[string]any, error) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}
	key, ok := KeyFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}
	fresh, err := s.svc.Rotate(ctx, key)
	if err != nil {
		return nil, err
	}
	return sessionBody(fresh.Key, fresh.ExpiresAt, principal), nil
}

// Delete revokes the presented key (logout).
func (s *Session) Delete(ctx context.Context) (bool, error) {
	key, ok := KeyFromContext(ctx)
	if !ok {
		return false, ErrForbidden
	}
	return s.svc.Revoke(ctx, key)
}

func sessionBody(key string, expiresAt time.Time, principal Principal) map[string]any {
	body := map[string]any{
		"key": key,
		"user": map[string]any{
			"id":    principal.ID,
			"email": principal.Email,
		},
	}
	if !expiresAt.IsZero() {
		body["expires_at"] = expiresAt.UTC().Format(time.RFC3339)
	}
	return body
}

// Confirmation is the resource behind account confirmation: POST reissues
// a single-use key for an address, PUT consumes a key and marks the owner
// confirmed. Both operations are open to everyone; the key itself is the
// credential.
type Confirmation struct {
	resource.Validated
	svc *Service
}

// NewConfirmation builds the confirmation resource.
func NewConfirmation(parent resource.Resource, svc *Service) (*Confirmation, error) {
	acl := resource.Policy{
		resource.CapCreate: resource.Everyone,
		resource.CapUpdate: resource.Everyone,
	}
	v, err := resource.NewValidated(parent, "conf", acl, map[schema.Method]schema.Constructor{
		schema.MethodPost: confirmationSchema,
		schema.MethodPut:  confirmationSchema,
	})
	if err != nil {
		return nil, err
	}
	return &Confirmation{Validated: v, svc: svc}, nil
}

// Create reissues a confirmation token. The key travels out of band (the
// notifier hands it to the user), so the response body stays empty.
func (c *Confirmation) Create(ctx context.Context, data map[string]any) (map[string]any, error) {
	validated, errs := c.Validate(schema.MethodPost, data, true)
	if errs != nil {
		return nil, errs
	}
	email, _ := validated["email"].(string)
	if _, err := c.svc.IssueConfirmation(ctx, email); err != nil {
		return nil, err
	}
	return nil, nil
}

// Update consumes the presented key exactly once.
func (c *Confirmation) Update(ctx context.Context, data map[string]any) (map[string]any, error) {
	validated, errs := c.Validate(schema.MethodPut, data, true)
	if errs != nil {
		return nil, errs
	}
	key, _ := validated["key"].(string)
	principal, err := c.svc.Confirm(ctx, key)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"user": map[string]any{
			"id": principal.ID,
		},
	}, nil
}

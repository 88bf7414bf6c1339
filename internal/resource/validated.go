package resource

import "citeapi.org/internal/schema"

// Validated augments a tree node with per-method payload validation. Every
// concrete resource kind contributes a default schema table; individual
// resources may override entries at construction time. Lookup is an
// explicit two-step fallback: instance override, then kind default, then
// no validation at all.
type Validated struct {
	*Node
	acl       Policy
	defaults  map[schema.Method]schema.Constructor
	overrides map[schema.Method]schema.Constructor
}

func newValidated(parent Resource, name string, acl Policy, defaults map[schema.Method]schema.Constructor) (Validated, error) {
	n, err := NewNode(parent, name)
	if err != nil {
		return Validated{}, err
	}
	return Validated{Node: n, acl: acl, defaults: defaults}, nil
}

// NewValidated builds a validated node for resource kinds defined outside
// this package, with schemas as the instance table.
func NewValidated(parent Resource, name string, acl Policy, schemas map[schema.Method]schema.Constructor) (Validated, error) {
	v, err := newValidated(parent, name, acl, nil)
	if err != nil {
		return Validated{}, err
	}
	for m, ctor := range schemas {
		v.setSchema(m, ctor)
	}
	return v, nil
}

func (v *Validated) ACL() Policy { return v.acl }

func (v *Validated) setSchema(m schema.Method, ctor schema.Constructor) {
	if v.overrides == nil {
		v.overrides = make(map[schema.Method]schema.Constructor)
	}
	v.overrides[m] = ctor
}

func (v *Validated) constructor(m schema.Method) schema.Constructor {
	if ctor, ok := v.overrides[m]; ok {
		return ctor
	}
	if ctor, ok := v.defaults[m]; ok {
		return ctor
	}
	return nil
}

// Validate runs the schema registered for method over data. Methods with
// no registered schema pass data through untouched. In strict mode any
// violation is returned as the error; in permissive mode the partially
// loaded data and the collected errors are both returned to the caller.
func (v *Validated) Validate(m schema.Method, data map[string]any, strict bool) (map[string]any, schema.Errors) {
	ctor := v.constructor(m)
	if ctor == nil {
		return data, nil
	}
	if data == nil {
		data = map[string]any{}
	}
	return ctor(m).Load(data, strict)
}

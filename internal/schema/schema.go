package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Method is the closed set of HTTP verbs a form can discriminate on.
type Method string

const (
	MethodPost   Method = "POST"
	MethodGet    Method = "GET"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Known reports whether m is one of the four supported verbs.
func (m Method) Known() bool {
	switch m {
	case MethodPost, MethodGet, MethodPut, MethodDelete:
		return true
	}
	return false
}

// Errors maps field names to their validation messages. A nil Errors means
// the data loaded cleanly.
type Errors map[string][]string

func (e Errors) Error() string {
	if len(e) == 0 {
		return "schema: no errors"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], "; "))
	}
	return "schema: " + strings.Join(parts, ", ")
}

func (e Errors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Validator is a pluggable field predicate. Validators receive the coerced
// value and return a caller-facing message on rejection.
type Validator func(value any) error

// Coercer normalizes a raw inbound value before validation, e.g. the string
// form of a query parameter into an int.
type Coercer func(value any) (any, error)

// Field declares one form entry.
type Field struct {
	// RequiredOn lists the methods for which absence of the field is an
	// error. Empty means the field is always optional.
	RequiredOn []Method

	// Default is substituted when the field is absent. nil means no default.
	Default any

	Coerce     Coercer
	Validators []Validator
}

func (f Field) requiredOn(m Method) bool {
	for _, rm := range f.RequiredOn {
		if rm == m {
			return true
		}
	}
	return false
}

// Constructor builds a form bound to a request method. Resources keep
// explicit Method->Constructor tables instead of resolving schemas at
// runtime by attribute lookup.
type Constructor func(Method) *Form

// Form is an explicit field table validating one nested payload level.
type Form struct {
	method Method
	fields map[string]Field
}

// New builds a form for the given method context.
func New(method Method, fields map[string]Field) *Form {
	return &Form{method: method, fields: fields}
}

// Method returns the request method the form was instantiated for.
func (f *Form) Method() Method {
	return f.method
}

// Load validates data against the field table and returns the sanitized
// copy. Unknown fields are always rejected; there is no silent drop. In
// strict mode any violation discards the partial result, otherwise the
// partially loaded data is returned together with the collected errors.
func (f *Form) Load(data map[string]any, strict bool) (map[string]any, Errors) {
	errs := Errors{}
	out := make(map[string]any, len(data))

	for name := range data {
		if _, ok := f.fields[name]; !ok {
			errs.add(name, "unknown field")
		}
	}

	for name, field := range f.fields {
		raw, present := data[name]
		if !present {
			if field.requiredOn(f.method) {
				errs.add(name, "this field is required")
				continue
			}
			if field.Default != nil {
				out[name] = field.Default
			}
			continue
		}
		value := raw
		if field.Coerce != nil {
			coerced, err := field.Coerce(raw)
			if err != nil {
				errs.add(name, err.Error())
				continue
			}
			value = coerced
		}
		ok := true
		for _, validate := range field.Validators {
			if err := validate(value); err != nil {
				errs.add(name, err.Error())
				ok = false
			}
		}
		if ok {
			out[name] = value
		}
	}

	if len(errs) == 0 {
		return out, nil
	}
	if strict {
		return nil, errs
	}
	return out, errs
}

// Nested returns a coercer that loads value through a sub-form and yields
// the sub-form's sanitized output. The sub-form shares the parent's method
// context.
func Nested(ctor Constructor, method Method) Coercer {
	return func(value any) (any, error) {
		nested, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("must be an object")
		}
		loaded, errs := ctor(method).Load(nested, true)
		if errs != nil {
			return nil, errs
		}
		return loaded, nil
	}
}

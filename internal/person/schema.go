package person

import (
	"fmt"

	"citeapi.org/internal/schema"
)

// nameSchema validates the nested name object.
func nameSchema(m schema.Method) *schema.Form {
	field := func() schema.Field {
		return schema.Field{
			Coerce:     schema.String,
			Validators: []schema.Validator{schema.Length(1, 128)},
		}
	}
	return schema.New(m, map[string]schema.Field{
		"title":  field(),
		"first":  field(),
		"middle": field(),
		"last":   field(),
		"full":   field(),
	})
}

// nameShape rejects a name that mixes the full form with split parts.
func nameShape(value any) error {
	name, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("must be an object")
	}
	if len(name) == 0 {
		return fmt.Errorf("a name is required")
	}
	_, full := name["full"]
	parts := false
	for _, k := range []string{"first", "middle", "last"} {
		if _, ok := name[k]; ok {
			parts = true
		}
	}
	if full && parts {
		return fmt.Errorf("use either full or first/middle/last, not both")
	}
	return nil
}

// createSchema validates person creation and updates: the name object is
// mandatory on POST, the rest is optional.
func createSchema(m schema.Method) *schema.Form {
	return schema.New(m, map[string]schema.Field{
		"name": {
			RequiredOn: []schema.Method{schema.MethodPost},
			Coerce:     schema.Nested(nameSchema, m),
			Validators: []schema.Validator{nameShape},
		},
		"description": {
			Coerce:     schema.String,
			Validators: []schema.Validator{schema.Length(0, 1024)},
		},
		"birth": {
			Coerce: schema.Int,
		},
		"death": {
			Coerce: schema.Int,
		},
	})
}

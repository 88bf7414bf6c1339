package organization

import (
	"fmt"

	"citeapi.org/internal/schema"
)

// regionCode accepts exactly two letters, any case.
func regionCode(value any) error {
	region, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}
	if len(region) != 2 {
		return fmt.Errorf("must be a two-letter code")
	}
	for _, r := range region {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return fmt.Errorf("must be a two-letter code")
		}
	}
	return nil
}

// createSchema validates organization creation and updates: the name is
// mandatory on POST, the rest is optional.
func createSchema(m schema.Method) *schema.Form {
	return schema.New(m, map[string]schema.Field{
		"name": {
			RequiredOn: []schema.Method{schema.MethodPost},
			Coerce:     schema.String,
			Validators: []schema.Validator{schema.Length(1, 256)},
		},
		"description": {
			Coerce:     schema.String,
			Validators: []schema.Validator{schema.Length(0, 1024)},
		},
		"region": {
			Coerce:     schema.String,
			Validators: []schema.Validator{regionCode},
		},
	})
}

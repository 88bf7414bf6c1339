package user

import (
	"fmt"

	"citeapi.org/internal/schema"
)

// createSchema validates signup and profile updates: the email address and
// password are mandatory on POST only, group membership is optional and
// restricted to the known set.
func createSchema(m schema.Method) *schema.Form {
	return schema.New(m, map[string]schema.Field{
		"email": {
			RequiredOn: []schema.Method{schema.MethodPost},
			Coerce:     schema.String,
			Validators: []schema.Validator{schema.Email},
		},
		"password": {
			RequiredOn: []schema.Method{schema.MethodPost},
			Coerce:     schema.String,
			Validators: []schema.Validator{schema.Password},
		},
		"groups": {
			Coerce:     schema.StringList,
			Validators: []schema.Validator{schema.Each(knownGroup)},
		},
	})
}

// retrieveSchema extends the common collection query with an email filter.
func retrieveSchema(m schema.Method) *schema.Form {
	fields := schema.CollectionFields()
	fields["email"] = schema.Field{
		Coerce:     schema.String,
		Validators: []schema.Validator{schema.Email},
	}
	return schema.New(m, fields)
}

func knownGroup(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}
	if !KnownGroup(s) {
		return fmt.Errorf("unknown group %q", s)
	}
	return nil
}

package schema

// Collection query defaults guard against unbounded store dumps.
const (
	DefaultLimit = 100
	DefaultSkip  = 0
)

// CollectionFields returns a fresh copy of the common collection query
// fields: an optional id filter, field projection and limit/skip
// pagination. Callers extend the map with domain filters before building
// a form from it.
func CollectionFields() map[string]Field {
	return map[string]Field{
		"ids": {
			Coerce:     StringList,
			Validators: []Validator{Each(ObjectID)},
		},
		"fields": {
			Coerce: StringList,
		},
		"limit": {
			Default:    DefaultLimit,
			Coerce:     Int,
			Validators: []Validator{Min("limit", 1)},
		},
		"skip": {
			Default:    DefaultSkip,
			Coerce:     Int,
			Validators: []Validator{Min("skip", 0)},
		},
	}
}

// RetrieveCollection validates the common collection query.
func RetrieveCollection(m Method) *Form {
	return New(m, CollectionFields())
}

// RetrieveDocument validates a single-document query: projection only.
func RetrieveDocument(m Method) *Form {
	return New(m, map[string]Field{
		"fields": {
			Coerce: StringList,
		},
	})
}

package person

import (
	"errors"
	"testing"

	"citeapi.org/internal/schema"
	"citeapi.org/internal/store"
)

func TestNameDisplay(t *testing.T) {
	cases := []struct {
		name Name
		want string
	}{
		{Name{Full: "John Doe"}, "John Doe"},
		{Name{First: "John", Last: "Doe"}, "John Doe"},
		{Name{First: "John", Middle: "Q", Last: "Doe"}, "John Q Doe"},
		{Name{Title: "Dr"}, ""},
	}
	for _, tc := range cases {
		if got := tc.name.Display(); got != tc.want {
			t.Fatalf("Display(%+v) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestValidateNameShape(t *testing.T) {
	p := &Person{}
	if err := p.Validate(); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("empty name = %v, want store.ErrValidation", err)
	}
	p.Name = Name{Full: "John Doe", First: "John"}
	if err := p.Validate(); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("mixed name = %v, want store.ErrValidation", err)
	}
	p.Name = Name{Full: "John Doe"}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	p.Name = Name{Title: "Dr", First: "John", Last: "Doe"}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestCreateSchemaRequiresNameOnPost(t *testing.T) {
	_, errs := createSchema(schema.MethodPost).Load(map[string]any{}, true)
	if errs == nil || len(errs["name"]) == 0 {
		t.Fatalf("errs = %v", errs)
	}
	if _, errs := createSchema(schema.MethodPut).Load(map[string]any{"description": "x"}, true); errs != nil {
		t.Fatalf("PUT without name must pass: %v", errs)
	}
}

func TestCreateSchemaRejectsMixedName(t *testing.T) {
	_, errs := createSchema(schema.MethodPost).Load(map[string]any{
		"name": map[string]any{"full": "John Doe", "first": "John"},
	}, true)
	if errs == nil || len(errs["name"]) == 0 {
		t.Fatalf("errs = %v", errs)
	}
}

func TestCreateSchemaAcceptsFullName(t *testing.T) {
	out, errs := createSchema(schema.MethodPost).Load(map[string]any{
		"name":  map[string]any{"full": "John Doe"},
		"birth": "1900",
	}, true)
	if errs != nil {
		t.Fatalf("errs = %v", errs)
	}
	name, _ := out["name"].(map[string]any)
	if name["full"] != "John Doe" {
		t.Fatalf("out = %v", out)
	}
	if out["birth"] != 1900 {
		t.Fatalf("birth = %v", out["birth"])
	}
}

func TestDeserializeAppliesNameParts(t *testing.T) {
	p := &Person{}
	err := p.Deserialize(map[string]any{
		"name":        map[string]any{"first": "John", "last": "Doe"},
		"description": "an example",
		"birth":       1900,
	})
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if p.Name.First != "John" || p.Name.Last != "Doe" {
		t.Fatalf("name = %+v", p.Name)
	}
	if p.BirthYear != 1900 {
		t.Fatalf("birth = %d", p.BirthYear)
	}
	doc := p.Serialize(nil)
	name, _ := doc["name"].(map[string]any)
	if name["full"] != "John Doe" {
		t.Fatalf("serialized name = %v", name)
	}
}

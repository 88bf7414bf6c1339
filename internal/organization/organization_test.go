package organization

import (
	"errors"
	"testing"

	"citeapi.org/internal/schema"
	"citeapi.org/internal/store"
)

func TestValidateRequiresName(t *testing.T) {
	o := &Organization{}
	if err := o.Validate(); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("empty name = %v, want store.ErrValidation", err)
	}
	o.Name = "Acme Press"
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRegionCode(t *testing.T) {
	o := &Organization{Name: "Acme Press"}
	for _, bad := range []string{"A", "ABC", "U1"} {
		o.Region = bad
		if err := o.Validate(); !errors.Is(err, store.ErrValidation) {
			t.Fatalf("region %q = %v, want store.ErrValidation", bad, err)
		}
	}
	o.Region = "US"
	if err := o.Validate(); err != nil {
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

func TestCreateSchemaRegionLength(t *testing.T) {
	for _, bad := range []string{"A", "ABC"} {
		_, errs := createSchema(schema.MethodPost).Load(map[string]any{
			"name":   "Acme Press",
			"region": bad,
		}, true)
		if errs == nil || len(errs["region"]) == 0 {
			t.Fatalf("region %q: errs = %v", bad, errs)
		}
	}
	out, errs := createSchema(schema.MethodPost).Load(map[string]any{
		"name":   "Acme Press",
		"region": "us",
	}, true)
	if errs != nil {
		t.Fatalf("errs = %v", errs)
	}
	if out["region"] != "us" {
		t.Fatalf("region = %v", out["region"])
	}
}

func TestDeserializeUppercasesRegion(t *testing.T) {
	o := &Organization{}
	if err := o.Deserialize(map[string]any{"name": "Acme Press", "region": "us"}); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if o.Region != "US" {
		t.Fatalf("region = %q", o.Region)
	}
	doc := o.Serialize(nil)
	if doc["name"] != "Acme Press" || doc["region"] != "US" {
		t.Fatalf("doc = %v", doc)
	}
}

// Package organization defines the organization entity and its API
// resources. Publishers are organizations carrying a two-letter region
// code.
package organization

import (
	"fmt"
	"strings"

	"citeapi.org/internal/store"
)

// Organization is a cited institution or publisher.
type Organization struct {
	id string

	Name        string
	Description string
	Region      string
}

var _ store.Entity = (*Organization)(nil)

func (o *Organization) ID() string      { return o.id }
func (o *Organization) SetID(id string) { o.id = id }

func (o *Organization) Clone() store.Entity {
	dup := *o
	return &dup
}

func (o *Organization) Serialize(fields []string) map[string]any {
	full := map[string]any{
		"id":   o.id,
		"name": o.Name,
	}
	if o.Description != "" {
		full["description"] = o.Description
	}
	if o.Region != "" {
		full["region"] = o.Region
	}
	if len(fields) == 0 {
		return full
	}
	out := map[string]any{"id": o.id}
	for _, f := range fields {
		if v, ok := full[f]; ok {
			out[f] = v
		}
	}
	return out
}

func (o *Organization) Deserialize(data map[string]any) error {
	if v, ok := data["name"].(string); ok {
		o.Name = v
	}
	if v, ok := data["description"].(string); ok {
		o.Description = v
	}
	if v, ok := data["region"].(string); ok {
		o.Region = strings.ToUpper(v)
	}
	return nil
}

func (o *Organization) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("%w: a name is required", store.ErrValidation)
	}
	if o.Region != "" && !validRegion(o.Region) {
		return fmt.Errorf("%w: region must be a two-letter code", store.ErrValidation)
	}
	return nil
}

func validRegion(region string) bool {
	if len(region) != 2 {
		return false
	}
	for _, r := range region {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Package person defines the person entity and its API resources.
package person

import (
	"fmt"
	"strings"

	"citeapi.org/internal/store"
)

// Name carries the split and composed forms of a person's name. A name is
// either given as parts or as a single full string, never both.
type Name struct {
	Title  string
	First  string
	Middle string
	Last   string
	Full   string
}

// Display returns the composed name: the explicit full form when set,
// otherwise the non-empty parts joined in order.
func (n Name) Display() string {
	if n.Full != "" {
		return n.Full
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{n.First, n.Middle, n.Last} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (n Name) empty() bool {
	return n.Title == "" && n.First == "" && n.Middle == "" && n.Last == "" && n.Full == ""
}

// Person is a cited individual.
type Person struct {
	id string

	Name        Name
	Description string
	BirthYear   int
	DeathYear   int
}

var _ store.Entity = (*Person)(nil)

func (p *Person) ID() string      { return p.id }
func (p *Person) SetID(id string) { p.id = id }

func (p *Person) Clone() store.Entity {
	dup := *p
	return &dup
}

func (p *Person) Serialize(fields []string) map[string]any {
	name := map[string]any{
		"full": p.Name.Display(),
	}
	if p.Name.Title != "" {
		name["title"] = p.Name.Title
	}
	if p.Name.First != "" {
		name["first"] = p.Name.First
	}
	if p.Name.Middle != "" {
		name["middle"] = p.Name.Middle
	}
	if p.Name.Last != "" {
		name["last"] = p.Name.Last
	}
	full := map[string]any{
		"id":   p.id,
		"name": name,
	}
	if p.Description != "" {
		full["description"] = p.Description
	}
	if p.BirthYear != 0 {
		full["birth"] = p.BirthYear
	}
	if p.DeathYear != 0 {
		full["death"] = p.DeathYear
	}
	if len(fields) == 0 {
		return full
	}
	out := map[string]any{"id": p.id}
	for _, f := range fields {
		if v, ok := full[f]; ok {
			out[f] = v
		}
	}
	return out
}

func (p *Person) Deserialize(data map[string]any) error {
	if raw, ok := data["name"]; ok {
		name, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("name must be an object")
		}
		applyName(&p.Name, name)
	}
	if v, ok := data["description"].(string); ok {
		p.Description = v
	}
	if v, ok := data["birth"].(int); ok {
		p.BirthYear = v
	}
	if v, ok := data["death"].(int); ok {
		p.DeathYear = v
	}
	return nil
}

func (p *Person) Validate() error {
	if p.Name.empty() {
		return fmt.Errorf("%w: a name is required", store.ErrValidation)
	}
	if p.Name.Full != "" && (p.Name.First != "" || p.Name.Middle != "" || p.Name.Last != "") {
		return fmt.Errorf("%w: a name is either parts or a full string, not both", store.ErrValidation)
	}
	return nil
}

func applyName(n *Name, data map[string]any) {
	if v, ok := data["title"].(string); ok {
		n.Title = v
	}
	if v, ok := data["first"].(string); ok {
		n.First = v
	}
	if v, ok := data["middle"].(string); ok {
		n.Middle = v
	}
	if v, ok := data["last"].(string); ok {
		n.Last = v
	}
	if v, ok := data["full"].(string); ok {
		n.Full = v
	}
}

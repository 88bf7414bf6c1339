package store

import (
	"context"
	"errors"
	"testing"
)

type widget struct {
	id   string
	Name string
}

func (w *widget) ID() string      { return w.id }
func (w *widget) SetID(id string) { w.id = id }

func (w *widget) Clone() Entity {
	dup := *w
	return &dup
}

func (w *widget) Serialize(fields []string) map[string]any {
	return map[string]any{"id": w.id, "name": w.Name}
}

func (w *widget) Deserialize(data map[string]any) error {
	if v, ok := data["name"].(string); ok {
		w.Name = v
	}
	return nil
}

func (w *widget) Validate() error {
	if w.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func TestSaveAssignsIDAndGetReturnsCopy(t *testing.T) {
	col := NewMemory().Collection("widgets")
	ctx := context.Background()
	w := &widget{Name: "a"}
	if err := col.Save(ctx, w); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if w.ID() == "" {
		t.Fatal("save must assign an id")
	}
	got, err := col.Get(ctx, w.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// mutating the fetched copy must not touch stored state
	got.(*widget).Name = "scribbled"
	again, err := col.Get(ctx, w.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.(*widget).Name != "a" {
		t.Fatalf("stored name = %q, want %q", again.(*widget).Name, "a")
	}
}

func TestFailedSaveLeavesStoredStateIntact(t *testing.T) {
	col := NewMemory().Collection("widgets", "name")
	ctx := context.Background()
	a := &widget{Name: "a"}
	b := &widget{Name: "b"}
	for _, w := range []*widget{a, b} {
		if err := col.Save(ctx, w); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := col.Get(ctx, b.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got.(*widget).Name = ""
	if err := col.Save(ctx, got); err == nil {
		t.Fatal("invalid entity must not save")
	}
	got.(*widget).Name = "a"
	if err := col.Save(ctx, got); !errors.Is(err, ErrNotUnique) {
		t.Fatalf("err = %v, want ErrNotUnique", err)
	}

	stored, err := col.Get(ctx, b.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.(*widget).Name != "b" {
		t.Fatalf("stored name = %q, rejected saves must not alter state", stored.(*widget).Name)
	}
}

func TestSaveValidatesFirst(t *testing.T) {
	col := NewMemory().Collection("widgets")
	if err := col.Save(context.Background(), &widget{}); err == nil {
		t.Fatal("invalid entity must not save")
	}
}

func TestUniqueFieldEnforced(t *testing.T) {
	col := NewMemory().Collection("widgets", "name")
	ctx := context.Background()
	if err := col.Save(ctx, &widget{Name: "a"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := col.Save(ctx, &widget{Name: "a"}); !errors.Is(err, ErrNotUnique) {
		t.Fatalf("err = %v, want ErrNotUnique", err)
	}
	// updating the same entity keeps its own value
	w := &widget{Name: "b"}
	if err := col.Save(ctx, w); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := col.Save(ctx, w); err != nil {
		t.Fatalf("re-save of same entity: %v", err)
	}
}

func TestFindFiltersAndPages(t *testing.T) {
	col := NewMemory().Collection("widgets")
	ctx := context.Background()
	var ids []string
	for _, name := range []string{"a", "b", "a"} {
		w := &widget{Name: name}
		if err := col.Save(ctx, w); err != nil {
			t.Fatalf("Save: %v", err)
		}
		ids = append(ids, w.ID())
	}

	result, err := col.Find(ctx, Filter{Equals: map[string]any{"name": "a"}}, 0, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if result.Count != 2 || len(result.Items) != 2 {
		t.Fatalf("result = %+v", result)
	}

	result, err = col.Find(ctx, Filter{IDs: ids[:1]}, 0, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("id filter count = %d", result.Count)
	}

	// count reports the full match set even when paging truncates items
	result, err = col.Find(ctx, Filter{}, 1, 1)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if result.Count != 3 || len(result.Items) != 1 {
		t.Fatalf("paged result = %+v", result)
	}

	// skip past the end yields no items
	result, _ = col.Find(ctx, Filter{}, 10, 10)
	if result.Count != 3 || len(result.Items) != 0 {
		t.Fatalf("over-skip result = %+v", result)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	col := NewMemory().Collection("widgets")
	ctx := context.Background()
	w := &widget{Name: "a"}
	_ = col.Save(ctx, w)

	ok, err := col.Delete(ctx, w)
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v", ok, err)
	}
	ok, err = col.Delete(ctx, w)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if ok {
		t.Fatal("second delete must report false")
	}
	if _, err := col.Get(ctx, w.ID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete = %v", err)
	}
}

func TestFindOne(t *testing.T) {
	col := NewMemory().Collection("widgets")
	ctx := context.Background()
	w := &widget{Name: "target"}
	_ = col.Save(ctx, w)

	got, err := col.FindOne("name", "target")
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if got.ID() != w.ID() {
		t.Fatalf("got %q, want %q", got.ID(), w.ID())
	}
	if _, err := col.FindOne("name", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

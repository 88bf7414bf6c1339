package resource

import (
	"errors"
	"testing"
)

func TestNewNodeRequiresName(t *testing.T) {
	if _, err := NewNode(nil, ""); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("err = %v, want ErrEmptyName", err)
	}
}

func TestAttachRenamesAndReparents(t *testing.T) {
	root, err := NewIndex(nil, "v1")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	child, err := NewIndex(nil, "scratch")
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	if err := Attach(root, "users", child); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if child.Name() != "users" {
		t.Fatalf("name = %q, want users", child.Name())
	}
	if child.Parent() != Resource(root) {
		t.Fatal("parent identity lost on attach")
	}
	got, err := Child(root, "users")
	if err != nil {
		t.Fatalf("Child: %v", err)
	}
	if got != Resource(child) {
		t.Fatal("attached child not returned by lookup")
	}
}

func TestAttachRejectsBadArguments(t *testing.T) {
	root, _ := NewIndex(nil, "v1")
	child, _ := NewIndex(nil, "x")
	if err := Attach(root, "", child); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("err = %v, want ErrEmptyName", err)
	}
	if err := Attach(root, "x", nil); !errors.Is(err, ErrNilResource) {
		t.Fatalf("err = %v, want ErrNilResource", err)
	}
	if err := AttachFactory(root, "x", nil); !errors.Is(err, ErrNilFactory) {
		t.Fatalf("err = %v, want ErrNilFactory", err)
	}
}

func TestLineage(t *testing.T) {
	root, _ := NewIndex(nil, "v1")
	users, _ := NewIndex(nil, "x")
	_ = Attach(root, "users", users)
	leaf, _ := NewIndex(nil, "y")
	_ = Attach(users, "auth", leaf)

	got := leaf.Lineage()
	want := []string{"auth", "users", "v1"}
	if len(got) != len(want) {
		t.Fatalf("lineage = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lineage = %v, want %v", got, want)
		}
	}
}

func TestAttachFactoryBuildsPerLookup(t *testing.T) {
	root, _ := NewIndex(nil, "v1")
	calls := 0
	err := AttachFactory(root, "fresh", func(parent Resource, name string) (Resource, error) {
		calls++
		return NewIndex(parent, name)
	})
	if err != nil {
		t.Fatalf("AttachFactory: %v", err)
	}
	a, err := Child(root, "fresh")
	if err != nil {
		t.Fatalf("Child: %v", err)
	}
	b, _ := Child(root, "fresh")
	if a == b {
		t.Fatal("factory children must be built fresh per lookup")
	}
	if calls != 2 {
		t.Fatalf("factory called %d times, want 2", calls)
	}
}

func TestWalk(t *testing.T) {
	root, _ := NewIndex(nil, "v1")
	users, _ := NewIndex(nil, "x")
	_ = Attach(root, "users", users)

	got, err := Walk(root, []string{"users"})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if got != Resource(users) {
		t.Fatal("walk resolved wrong resource")
	}
	if _, err := Walk(root, []string{"nope"}); !errors.Is(err, ErrNoChild) {
		t.Fatalf("err = %v, want ErrNoChild", err)
	}
	if got, err := Walk(root, nil); err != nil || got != Resource(root) {
		t.Fatalf("empty walk = %v, %v", got, err)
	}
}

func TestDefaultPolicyDeniesUnknownCapabilities(t *testing.T) {
	root, _ := NewIndex(nil, "v1")
	acl := root.ACL()
	if !acl.Allows(CapRetrieve, false) {
		t.Fatal("bare node must allow retrieve for everyone")
	}
	for _, cap := range []Capability{CapCreate, CapUpdate, CapDelete} {
		if acl.Allows(cap, true) {
			t.Fatalf("bare node must deny %s", cap)
		}
	}
}

// Package resource implements the traversal tree the API mediates requests
// through: named nodes resolve path segments to concrete collection and
// document resources, each carrying its own authorization policy and
// per-method validation schemas.
package resource

import "errors"

var (
	ErrEmptyName   = errors.New("resource: name must not be empty")
	ErrNilResource = errors.New("resource: nil resource")
	ErrNilFactory  = errors.New("resource: nil factory")
	ErrNoChild     = errors.New("resource: no such child")
)

// Resource is an addressable element of the traversal tree.
type Resource interface {
	Name() string
	Parent() Resource
	Lineage() []string
	ACL() Policy

	tree() *Node
}

// Factory builds a child resource on demand, letting the same constructor
// be registered under many names.
type Factory func(parent Resource, name string) (Resource, error)

// Node is the tree skeleton embedded by every resource. Trees are composed
// during bootstrap and must be treated as read-only once serving traffic;
// children resolved per request (documents) are built fresh and never
// attached.
type Node struct {
	name      string
	parent    Resource
	children  map[string]Resource
	factories map[string]Factory
}

// NewNode builds the tree element backing a resource. parent may be nil for
// the root.
func NewNode(parent Resource, name string) (*Node, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Node{name: name, parent: parent}, nil
}

func (n *Node) Name() string     { return n.name }
func (n *Node) Parent() Resource { return n.parent }

// ACL is the default policy for bare nodes: anyone may retrieve, nothing
// else is exposed. Concrete resources override it.
func (n *Node) ACL() Policy {
	return Policy{CapRetrieve: Everyone}
}

// Lineage lists node names from this node up to the parent-less root.
func (n *Node) Lineage() []string {
	names := []string{n.name}
	for p := n.parent; p != nil; p = p.tree().parent {
		names = append(names, p.tree().name)
	}
	return names
}

func (n *Node) tree() *Node { return n }

// Attach stores child under name, reparenting and renaming it. Renaming on
// attach is what lets one constructor serve many route names.
func Attach(parent Resource, name string, child Resource) error {
	if name == "" {
		return ErrEmptyName
	}
	if child == nil {
		return ErrNilResource
	}
	pn := parent.tree()
	cn := child.tree()
	cn.name = name
	cn.parent = parent
	if pn.children == nil {
		pn.children = make(map[string]Resource)
	}
	pn.children[name] = child
	return nil
}

// AttachFactory registers a lazily-constructed child. The factory runs on
// every lookup, so children built this way are request-scoped.
func AttachFactory(parent Resource, name string, factory Factory) error {
	if name == "" {
		return ErrEmptyName
	}
	if factory == nil {
		return ErrNilFactory
	}
	pn := parent.tree()
	if pn.factories == nil {
		pn.factories = make(map[string]Factory)
	}
	pn.factories[name] = factory
	return nil
}

// Resolver lets a resource resolve path segments that are not registered
// children, e.g. a collection turning an entity id into a document.
type Resolver interface {
	Resolve(name string) (Resource, error)
}

// Child looks up one path segment under parent: attached instances first,
// then registered factories, then the parent's dynamic resolver.
func Child(parent Resource, name string) (Resource, error) {
	pn := parent.tree()
	if child, ok := pn.children[name]; ok {
		return child, nil
	}
	if factory, ok := pn.factories[name]; ok {
		return factory(parent, name)
	}
	if resolver, ok := parent.(Resolver); ok {
		return resolver.Resolve(name)
	}
	return nil, ErrNoChild
}

// Walk resolves a request path by successive child lookups from root.
func Walk(root Resource, segments []string) (Resource, error) {
	current := root
	for _, segment := range segments {
		next, err := Child(current, segment)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// Index is a plain traversal node exposing no operations. The mediator
// answers retrieve on an index with an empty 204 response.
type Index struct {
	*Node
}

// NewIndex builds an index node; parent may be nil for the tree root.
func NewIndex(parent Resource, name string) (*Index, error) {
	n, err := NewNode(parent, name)
	if err != nil {
		return nil, err
	}
	return &Index{Node: n}, nil
}

package store

import (
	"context"
	"sort"
	"sync"

	"citeapi.org/internal/ids"
)

// Memory is an in-process store used by tests and dev mode. All collections
// share one lock, so dependent-entity cleanup cannot interleave with
// concurrent writes to sibling collections.
type Memory struct {
	mu   sync.Mutex
	cols map[string]*MemoryCollection
}

func NewMemory() *Memory {
	return &Memory{cols: make(map[string]*MemoryCollection)}
}

// Collection returns the named collection, creating it on first use.
// unique lists the top-level serialized fields enforced as unique across
// the collection.
func (m *Memory) Collection(name string, unique ...string) *MemoryCollection {
	m.mu.Lock()
	defer m.mu.Unlock()
	if col, ok := m.cols[name]; ok {
		return col
	}
	col := &MemoryCollection{
		mu:     &m.mu,
		items:  make(map[string]Entity),
		unique: unique,
	}
	m.cols[name] = col
	return col
}

// MemoryCollection keeps entities by id. Field matching for filters and
// unique checks runs over the serialized form of each entity. Entities are
// cloned on the way in and out, so stored state only changes through Save.
type MemoryCollection struct {
	mu     *sync.Mutex
	items  map[string]Entity
	unique []string
}

var _ Collection = (*MemoryCollection)(nil)

func (c *MemoryCollection) Find(ctx context.Context, filter Filter, limit, skip int) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idSet := make(map[string]struct{}, len(filter.IDs))
	for _, id := range filter.IDs {
		idSet[id] = struct{}{}
	}

	matched := make([]string, 0, len(c.items))
	for id, entity := range c.items {
		if len(idSet) > 0 {
			if _, ok := idSet[id]; !ok {
				continue
			}
		}
		if !matchEquals(entity.Serialize(nil), filter.Equals) {
			continue
		}
		matched = append(matched, id)
	}
	sort.Strings(matched)

	result := Result{Count: len(matched)}
	if skip < len(matched) {
		matched = matched[skip:]
	} else {
		matched = nil
	}
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	for _, id := range matched {
		result.Items = append(result.Items, c.items[id].Clone())
	}
	return result, nil
}

func (c *MemoryCollection) Get(ctx context.Context, id string) (Entity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entity, ok := c.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return entity.Clone(), nil
}

func (c *MemoryCollection) Save(ctx context.Context, e Entity) error {
	if err := e.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e.ID() == "" {
		e.SetID(ids.New())
	}
	doc := e.Serialize(nil)
	for _, field := range c.unique {
		value, ok := doc[field]
		if !ok || value == nil {
			continue
		}
		for id, other := range c.items {
			if id != e.ID() && other.Serialize(nil)[field] == value {
				return ErrNotUnique
			}
		}
	}
	c.items[e.ID()] = e.Clone()
	return nil
}

func (c *MemoryCollection) Delete(ctx context.Context, e Entity) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[e.ID()]; !ok {
		return false, nil
	}
	delete(c.items, e.ID())
	return true, nil
}

// FindOne returns the single entity whose serialized field equals value.
func (c *MemoryCollection) FindOne(field string, value any) (Entity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entity := range c.items {
		if entity.Serialize(nil)[field] == value {
			return entity.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func matchEquals(doc map[string]any, equals map[string]any) bool {
	for field, want := range equals {
		if doc[field] != want {
			return false
		}
	}
	return true
}

package shared

import (
	"encoding/json"
	"iter"

	"github.com/google/uuid"
)

// Collection is an ordered set of entities keyed by UUID.
// Insertion order is preserved; adding an entity whose UUID is already present
// replaces the stored value in place.
//
// A nil *Collection behaves as an empty collection for all read methods.
type Collection[T Entity] struct {
	elements map[uuid.UUID]T
	order    []uuid.UUID
}

// NewCollection creates a collection holding the given entities
func NewCollection[T Entity](items ...T) *Collection[T] {
	c := &Collection[T]{
		elements: make(map[uuid.UUID]T, len(items)),
		order:    make([]uuid.UUID, 0, len(items)),
	}
	for _, item := range items {
		c.Add(item)
	}
	return c
}

// Add inserts an entity, replacing any entity with the same UUID
func (c *Collection[T]) Add(item T) {
	if c.elements == nil {
		c.elements = make(map[uuid.UUID]T)
	}
	id := item.GetUUID()
	if _, exists := c.elements[id]; !exists {
		c.order = append(c.order, id)
	}
	c.elements[id] = item
}

// Get returns the entity with the given UUID
func (c *Collection[T]) Get(id uuid.UUID) (T, bool) {
	if c == nil {
		var zero T
		return zero, false
	}
	item, ok := c.elements[id]
	return item, ok
}

// Has reports whether an entity with the given UUID is present
func (c *Collection[T]) Has(id uuid.UUID) bool {
	_, ok := c.Get(id)
	return ok
}

// Remove deletes the entity with the given UUID if present
func (c *Collection[T]) Remove(id uuid.UUID) {
	if c == nil {
		return
	}
	if _, ok := c.elements[id]; !ok {
		return
	}
	delete(c.elements, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Count returns the number of entities
func (c *Collection[T]) Count() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// IsEmpty reports whether the collection holds no entities
func (c *Collection[T]) IsEmpty() bool {
	return c.Count() == 0
}

// UUIDs returns the entity identifiers in insertion order
func (c *Collection[T]) UUIDs() []uuid.UUID {
	if c == nil {
		return []uuid.UUID{}
	}
	return append([]uuid.UUID(nil), c.order...)
}

// Elements returns the entities in insertion order
func (c *Collection[T]) Elements() []T {
	if c == nil {
		return []T{}
	}
	result := make([]T, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.elements[id])
	}
	return result
}

// All iterates the entities in insertion order
func (c *Collection[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if c == nil {
			return
		}
		for _, id := range c.order {
			if !yield(c.elements[id]) {
				return
			}
		}
	}
}

// First returns the first entity in insertion order
func (c *Collection[T]) First() (T, bool) {
	if c.Count() == 0 {
		var zero T
		return zero, false
	}
	return c.elements[c.order[0]], true
}

// Filter returns a new collection with the entities matching the predicate.
// The receiver is not modified.
func (c *Collection[T]) Filter(match func(T) bool) *Collection[T] {
	result := NewCollection[T]()
	for item := range c.All() {
		if match(item) {
			result.Add(item)
		}
	}
	return result
}

// Merge returns a new collection holding the receiver's entities followed by
// the entities of other that are not already present
func (c *Collection[T]) Merge(other *Collection[T]) *Collection[T] {
	result := NewCollection(c.Elements()...)
	for item := range other.All() {
		if !result.Has(item.GetUUID()) {
			result.Add(item)
		}
	}
	return result
}

// SortedBy returns a new collection ordered by the given ids.
// Entities whose UUID is not listed are dropped.
func (c *Collection[T]) SortedBy(ids []uuid.UUID) *Collection[T] {
	result := NewCollection[T]()
	for _, id := range ids {
		if item, ok := c.Get(id); ok {
			result.Add(item)
		}
	}
	return result
}

// MarshalJSON encodes the collection as an ordered array
func (c *Collection[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Elements())
}

// Pluck collects one association per entity into a new deduplicated collection,
// skipping entities for which get reports no value
func Pluck[T Entity, A Entity](c *Collection[T], get func(T) (A, bool)) *Collection[A] {
	result := NewCollection[A]()
	for item := range c.All() {
		if assoc, ok := get(item); ok {
			result.Add(assoc)
		}
	}
	return result
}

// PluckMany flattens a to-many association of every entity into a new
// deduplicated collection
func PluckMany[T Entity, A Entity](c *Collection[T], get func(T) []A) *Collection[A] {
	result := NewCollection[A]()
	for item := range c.All() {
		for _, assoc := range get(item) {
			result.Add(assoc)
		}
	}
	return result
}

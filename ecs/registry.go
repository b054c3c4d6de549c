package ecs

import (
	"iter"
	"reflect"
)

// column is a type-erased store for one component type inside an archetype.
type column interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Len() int
	Iter() iter.Seq[int]
}

// ComponentRegistry maps component types to column factories. Each Storage
// owns one registry, so independent worlds never share registrations.
type ComponentRegistry struct {
	factories map[reflect.Type]func() column
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() column),
	}
}

// RegisterComponent registers T with the registry. Spawning an entity with an
// unregistered component type panics.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() column {
		return &chunkedColumn[T]{}
	}
}

func (r *ComponentRegistry) factory(t reflect.Type) func() column {
	return r.factories[t]
}

const chunkSize = 64

// chunkedColumn stores values in fixed-size chunks so that pointers handed
// out by Get stay valid while the column grows.
type chunkedColumn[T any] struct {
	chunks []*[chunkSize]T
	live   []*[chunkSize]bool
	free   []int
	next   int
	count  int
}

func (c *chunkedColumn[T]) slot(index int) (int, int, bool) {
	if index < 0 || index >= c.next {
		return 0, 0, false
	}
	return index / chunkSize, index % chunkSize, true
}

// Append stores item (a T or *T) and returns its slot index, or -1 when the
// item has the wrong type.
func (c *chunkedColumn[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		return -1
	}

	var index int
	if n := len(c.free); n > 0 {
		index = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		index = c.next
		c.next++
		if index/chunkSize >= len(c.chunks) {
			c.chunks = append(c.chunks, new([chunkSize]T))
			c.live = append(c.live, new([chunkSize]bool))
		}
	}

	chunk, offset := index/chunkSize, index%chunkSize
	c.chunks[chunk][offset] = value
	c.live[chunk][offset] = true
	c.count++
	return index
}

// Get returns a *T for a live slot, nil otherwise.
func (c *chunkedColumn[T]) Get(index int) any {
	chunk, offset, ok := c.slot(index)
	if !ok || !c.live[chunk][offset] {
		return nil
	}
	return &c.chunks[chunk][offset]
}

func (c *chunkedColumn[T]) Delete(index int) {
	chunk, offset, ok := c.slot(index)
	if !ok || !c.live[chunk][offset] {
		return
	}
	var zero T
	c.chunks[chunk][offset] = zero
	c.live[chunk][offset] = false
	c.free = append(c.free, index)
	c.count--
}

func (c *chunkedColumn[T]) Has(index int) bool {
	chunk, offset, ok := c.slot(index)
	return ok && c.live[chunk][offset]
}

func (c *chunkedColumn[T]) Len() int {
	return c.count
}

func (c *chunkedColumn[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.next; i++ {
			if !c.live[i/chunkSize][i%chunkSize] {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}

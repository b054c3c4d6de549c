package ecs

import (
	"iter"
	"reflect"
	"slices"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype holds every entity that has exactly one particular set of
// component types, one column per type.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
}

// NewArchetype creates an archetype for the sorted component types.
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
	}

	for i, typ := range types {
		factory := registry.factory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.columns[i] = factory()
	}

	return a
}

// Spawn appends one entity and returns its slot index. Every column hands out
// the same index because columns of one archetype grow and shrink together.
func (a *Archetype) Spawn(components []any) uint32 {
	index := -1
	for _, comp := range components {
		idx := a.columnFor(componentType(comp))
		if idx < 0 {
			continue
		}
		index = a.columns[idx].Append(comp)
	}
	return uint32(index)
}

// GetComponent returns a pointer to the component of compType at index, or nil.
func (a *Archetype) GetComponent(index uint32, compType reflect.Type) any {
	idx := a.columnFor(compType)
	if idx < 0 {
		return nil
	}
	return a.columns[idx].Get(int(index))
}

// Delete frees the slot in every column. Other entities keep their indices.
func (a *Archetype) Delete(index uint32) {
	for _, col := range a.columns {
		col.Delete(int(index))
	}
}

// HasComponent reports whether this archetype includes compType.
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's hash identifier.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].Len()
}

// Iter yields the IDs of all live entities in slot order.
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for index := range a.columns[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}

func (a *Archetype) columnFor(t reflect.Type) int {
	for i, typ := range a.types {
		if typ == t {
			return i
		}
	}
	return -1
}

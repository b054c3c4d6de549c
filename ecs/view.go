package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View matches entities against a struct of component pointers. Embedded
// fields are required; named fields tagged `ecs:"optional"` may be nil.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
}

// NewView builds a view for the struct type T. It panics when T is not a
// struct of pointer fields.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{storage: storage}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		isOptional := false
		if !field.Anonymous {
			switch tag := field.Tag.Get("ecs"); tag {
			case "":
			case "optional":
				isOptional = true
			default:
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
		}

		v.types = append(v.types, field.Type.Elem())
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}

	return v
}

// Fill points the fields of ptr at the entity's components. It returns false
// when a required component is missing.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype, ok := v.storage.archetypes[id.ArchetypeId()]
	if !ok {
		return false
	}
	return v.populateResult(unsafe.Pointer(ptr), archetype, int(id.Index()), v.buildStorageIndices(archetype))
}

// Get returns the populated view struct for id, or nil.
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for i, t := range v.types {
		if !v.optional[i] && !archetype.HasComponent(t) {
			return false
		}
	}
	return true
}

func (v *View[T]) buildStorageIndices(archetype *Archetype) []int {
	indices := make([]int, len(v.types))
	for i, t := range v.types {
		indices[i] = archetype.columnFor(t)
	}
	return indices
}

func (v *View[T]) populateResult(resultPtr unsafe.Pointer, archetype *Archetype, entityIndex int, storageIndices []int) bool {
	for i, columnIdx := range storageIndices {
		fieldPtr := unsafe.Add(resultPtr, v.fieldOffset[i])

		var component any
		if columnIdx >= 0 {
			component = archetype.columns[columnIdx].Get(entityIndex)
		}
		if component == nil {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		*(*unsafe.Pointer)(fieldPtr) = (*iface)(unsafe.Pointer(&component)).data
	}
	return true
}

func (v *View[T]) iterArchetype(archetype *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		if len(archetype.columns) == 0 {
			return
		}

		indices := v.buildStorageIndices(archetype)
		var result T
		resultPtr := unsafe.Pointer(&result)

		for entityIndex := range archetype.columns[0].Iter() {
			if !v.populateResult(resultPtr, archetype, entityIndex, indices) {
				continue
			}
			if !yield(NewEntityId(archetype.id, uint32(entityIndex)), result) {
				return
			}
		}
	}
}

// Iter walks every matching entity without caching.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range v.storage.archetypes {
			if !v.matchesArchetype(archetype) {
				continue
			}
			for id, item := range v.iterArchetype(archetype) {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

// Values returns an iterator over just the view structs.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range v.Iter() {
			if !yield(item) {
				return
			}
		}
	}
}

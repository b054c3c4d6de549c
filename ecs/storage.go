package ecs

import (
	"reflect"
	"sort"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// iface mirrors the runtime layout of an interface value.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

type singletonEntry struct {
	typ     reflect.Type
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// Storage owns all archetypes and singletons of one world.
type Storage struct {
	archetypes map[uint32]*Archetype
	registry   *ComponentRegistry
	singletons *intmap.Map[int, *singletonEntry]
}

// NewStorage creates an empty world backed by registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		registry:   registry,
		singletons: intmap.New[int, *singletonEntry](16),
	}
}

// GetArchetype returns the archetype holding exactly the given component
// values' types, or nil.
func (s *Storage) GetArchetype(components ...any) *Archetype {
	return s.archetypes[hashTypesToUint32(extractComponentTypes(components))]
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := extractComponentTypes(components)
	archetypeId := hashTypesToUint32(types)

	archetype, ok := s.archetypes[archetypeId]
	if !ok {
		archetype = NewArchetype(archetypeId, types, s.registry)
		s.archetypes[archetypeId] = archetype
	}

	return NewEntityId(archetypeId, archetype.Spawn(components))
}

// Delete removes the entity. Deleting an unknown entity is a no-op.
func (s *Storage) Delete(id EntityId) {
	if archetype, ok := s.archetypes[id.ArchetypeId()]; ok {
		archetype.Delete(id.Index())
	}
}

// Count returns the number of live entities across all archetypes.
func (s *Storage) Count() int {
	total := 0
	for _, archetype := range s.archetypes {
		total += archetype.Len()
	}
	return total
}

// GetComponent returns a pointer to the entity's component, or nil.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return nil
	}
	return archetype.GetComponent(id.Index(), compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	return ok && archetype.HasComponent(compType)
}

// AddSingleton stores value as the singleton of its type, replacing any
// previous value of that type.
func (s *Storage) AddSingleton(value any) {
	typ := reflect.TypeOf(value)
	if typ == nil {
		panic("cannot add nil singleton")
	}

	ptr := reflect.New(typ)
	ptr.Elem().Set(reflect.ValueOf(value))

	s.singletons.Put(typeId(typ), &singletonEntry{
		typ:     typ,
		value:   ptr,
		dataPtr: ptr.UnsafePointer(),
	})
}

// RemoveSingleton drops the singleton of type t. Singleton accessors created
// earlier will report it as missing.
func (s *Storage) RemoveSingleton(t reflect.Type) {
	s.singletons.Del(typeId(t))
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	entry, ok := s.singletons.Get(typeId(t))
	if !ok {
		return nil
	}
	return entry
}

func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// extractComponentTypes returns the sorted component types of components.
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		t := componentType(comp)
		switch t.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
			panic("components cannot be pointers, maps, channels, or functions")
		}
		types = append(types, t)
	}
	sort.Sort(byTypeName(types))
	return types
}

func typeId(t reflect.Type) int {
	return int(uintptr((*iface)(unsafe.Pointer(&t)).data))
}

// hashTypesToUint32 folds the sorted types into an FNV-1a hash.
func hashTypesToUint32(types []reflect.Type) uint32 {
	const prime uint32 = 16777619
	h := uint32(2166136261)

	for _, t := range types {
		ptr := uintptr((*iface)(unsafe.Pointer(&t)).data)
		val := uint32(ptr)
		if unsafe.Sizeof(ptr) == 8 {
			val ^= uint32(uint64(ptr) >> 32)
		}
		h ^= val
		h *= prime
	}

	return h
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent is the typed form of GetComponent. It returns nil when the
// entity has no T.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}

package ecs

import (
	"reflect"
	"unsafe"
)

// Singleton gives typed access to a component that lives outside any
// entity: the session, configuration, network link and similar world-wide
// state.
type Singleton[T any] struct {
	storage      *Storage
	componentPtr unsafe.Pointer
}

// NewSingleton returns an accessor for T, creating the singleton from
// initializer (or the zero value) when storage does not hold one yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	if storage.getSingletonEntry(reflect.TypeFor[T]()) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}

	s := &Singleton[T]{}
	s.Init(storage)
	return s
}

// Init binds the accessor to storage. The Scheduler calls it for Singleton
// fields of registered systems.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.componentPtr = nil
	s.updateCache()
}

// Get returns a pointer to the singleton, or nil when storage has none.
func (s *Singleton[T]) Get() *T {
	s.updateCache()
	if s.componentPtr == nil {
		return nil
	}
	return (*T)(s.componentPtr)
}

// Exists returns true if the singleton component has been added to storage
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

// updateCache re-reads the entry so replaced or removed singletons are seen.
func (s *Singleton[T]) updateCache() {
	if s.storage == nil {
		return
	}
	if entry := s.storage.getSingletonEntry(reflect.TypeFor[T]()); entry != nil {
		s.componentPtr = entry.dataPtr
	} else {
		s.componentPtr = nil
	}
}

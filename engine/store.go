package engine

import (
	"sync"

	"github.com/lixenwraith/void-fighter/core"
)

// Store is an arena of T keyed by entity id
// Iteration follows insertion order; removal swaps the last entity into the gap
type Store[T any] struct {
	mu       sync.RWMutex
	items    map[core.Entity]T
	entities []core.Entity
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		items:    make(map[core.Entity]T),
		entities: make([]core.Entity, 0, 16),
	}
}

// Set inserts or replaces the value for e
func (s *Store[T]) Set(e core.Entity, val T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[e]; !exists {
		s.entities = append(s.entities, e)
	}
	s.items[e] = val
}

func (s *Store[T]) Get(e core.Entity) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.items[e]
	return val, ok
}

func (s *Store[T]) Has(e core.Entity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[e]
	return ok
}

// Remove deletes e; false when absent
func (s *Store[T]) Remove(e core.Entity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[e]; !exists {
		return false
	}
	delete(s.items, e)
	for i, id := range s.entities {
		if id == e {
			last := len(s.entities) - 1
			s.entities[i] = s.entities[last]
			s.entities = s.entities[:last]
			break
		}
	}
	return true
}

// Entities returns a snapshot of stored ids
func (s *Store[T]) Entities() []core.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Values returns a snapshot of stored values in entity order
func (s *Store[T]) Values() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, s.items[e])
	}
	return out
}

func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[core.Entity]T)
	s.entities = s.entities[:0]
}

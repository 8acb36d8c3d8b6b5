package world

// Store is a sparse set of components keyed by Entity. Lookups check the
// full entity (generation included) so a recycled slot never sees the
// component of its previous owner.
type Store[T any] struct {
	dense  []Entity
	values []T
	sparse []int
}

// NewStore returns an empty store
func NewStore[T any]() *Store[T] {
	return &Store[T]{}
}

func (s *Store[T]) index(e Entity) (int, bool) {
	id := int(e.id())
	if id <= 0 || id-1 >= len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[id-1]
	if idx < 0 || idx >= len(s.dense) || s.dense[idx] != e {
		return 0, false
	}
	return idx, true
}

// Has returns true if the entity has a component in the set.
func (s *Store[T]) Has(e Entity) bool {
	_, ok := s.index(e)
	return ok
}

// Get returns a pointer to the component for e. The pointer is only good
// until the next Set or Remove.
func (s *Store[T]) Get(e Entity) (*T, bool) {
	idx, ok := s.index(e)
	if !ok {
		return nil, false
	}
	return &s.values[idx], true
}

// Set inserts or updates the component for e.
func (s *Store[T]) Set(e Entity, v T) {
	id := int(e.id())
	if id <= 0 {
		return
	}
	for len(s.sparse) < id {
		s.sparse = append(s.sparse, -1)
	}
	if idx, ok := s.index(e); ok {
		s.values[idx] = v
		return
	}
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
	s.sparse[id-1] = len(s.dense) - 1
}

// Remove deletes the component for e if present.
func (s *Store[T]) Remove(e Entity) bool {
	idx, ok := s.index(e)
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	moved := s.dense[last]

	s.dense[idx] = moved
	s.values[idx] = s.values[last]
	s.sparse[moved.id()-1] = idx

	var zero T
	s.values[last] = zero
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	s.sparse[e.id()-1] = -1
	return true
}

// Len returns the number of components held
func (s *Store[T]) Len() int {
	return len(s.dense)
}

// Entities returns the entities with a component, in no particular order.
// The slice is owned by the store.
func (s *Store[T]) Entities() []Entity {
	return s.dense
}

// Clear removes everything
func (s *Store[T]) Clear() {
	s.dense = nil
	s.values = nil
	s.sparse = nil
}

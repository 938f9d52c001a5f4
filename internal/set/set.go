package set

// Set stores unique keys.
// It is not safe for concurrent use; each collection owns its own sets.
type Set[K comparable] struct {
	items map[K]struct{}
}

// New creates an empty Set.
func New[K comparable]() *Set[K] {
	return &Set[K]{
		items: make(map[K]struct{}),
	}
}

// Add inserts key and reports whether it was absent.
func (s *Set[K]) Add(key K) bool {
	if _, ok := s.items[key]; ok {
		return false
	}

	s.items[key] = struct{}{}

	return true
}

// Has reports whether key is present.
func (s *Set[K]) Has(key K) bool {
	_, ok := s.items[key]

	return ok
}

// Remove deletes key if present.
func (s *Set[K]) Remove(key K) {
	delete(s.items, key)
}

// Len returns the number of keys.
func (s *Set[K]) Len() int {
	return len(s.items)
}

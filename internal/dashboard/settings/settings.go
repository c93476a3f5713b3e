package settings

import (
	"sync"

	"stock-order-dashboard/internal/entity"
)

// Store holds the process-wide user settings behind a mutex so the
// controller, the poll loop, and the HTTP handlers all read one
// explicit value instead of ambient shared state.
type Store struct {
	mu sync.RWMutex
	v  entity.Settings
}

// NewStore creates a settings store seeded with the given defaults.
func NewStore(defaults entity.Settings) *Store {
	return &Store{v: defaults}
}

// Get returns the current settings value.
func (s *Store) Get() entity.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

// Update replaces the settings value.
func (s *Store) Update(v entity.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v = v
}

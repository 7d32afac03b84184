package trend

import (
	"sort"
	"time"
)

// Registry maps cache names to their trend state. Entities are created
// lazily on first sighting and never removed: a cache that disappears from
// the slabinfo report keeps its full history for the life of the process.
//
// The registry has a single writer (the cycle driver) and no concurrent
// readers, so it carries no lock.
type Registry struct {
	entities map[string]*Entity

	midWindow   float64
	shortWindow float64
	maxHistory  int
}

// NewRegistry creates a registry with the given bounded-horizon windows.
// maxHistory caps the per-entity total history; 0 keeps it unbounded.
func NewRegistry(midWindow, shortWindow time.Duration, maxHistory int) *Registry {
	return &Registry{
		entities:    make(map[string]*Entity),
		midWindow:   midWindow.Seconds(),
		shortWindow: shortWindow.Seconds(),
		maxHistory:  maxHistory,
	}
}

// Lookup returns the entity for name, creating it on first sighting.
func (r *Registry) Lookup(name string) *Entity {
	if e, ok := r.entities[name]; ok {
		return e
	}
	e := newEntity(name, r.midWindow, r.shortWindow, r.maxHistory)
	r.entities[name] = e
	return e
}

// Get returns the entity for name without creating it.
func (r *Registry) Get(name string) (*Entity, bool) {
	e, ok := r.entities[name]
	return e, ok
}

// Len returns the number of tracked entities.
func (r *Registry) Len() int {
	return len(r.entities)
}

// Names returns all tracked cache names in lexicographic order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

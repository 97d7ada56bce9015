package drift

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps test kinds to their numeric comparators so monitor profiles
// can select a test by name. Safe for concurrent reads; Register should only
// be called at startup.
type Registry struct {
	mu          sync.RWMutex
	comparators map[TestKind]NumericComparator
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{comparators: make(map[TestKind]NumericComparator)}
}

// DefaultRegistry returns a Registry with the built-in numeric comparators.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KSComparator{})
	r.Register(JSComparator{})
	return r
}

// Register adds a comparator. Panics on duplicate kind to surface
// misconfiguration early.
func (r *Registry) Register(c NumericComparator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.comparators[c.Kind()]; exists {
		panic(fmt.Sprintf("comparator registry: duplicate kind %q", c.Kind()))
	}
	r.comparators[c.Kind()] = c
}

// Get returns the comparator for the given kind.
func (r *Registry) Get(kind TestKind) (NumericComparator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.comparators[kind]
	if !ok {
		return nil, fmt.Errorf("no comparator registered for test kind %q", kind)
	}
	return c, nil
}

// Kinds returns all registered test kinds, sorted.
func (r *Registry) Kinds() []TestKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TestKind, 0, len(r.comparators))
	for k := range r.comparators {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

package schema

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry maps tags to schemas. The zero value is not usable; a nil
// *Registry is an empty registry.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

func NewRegistry(schemas ...*Schema) (*Registry, error) {
	r := &Registry{schemas: make(map[string]*Schema, len(schemas))}
	for _, s := range schemas {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds s under its name. Registering the same schema twice is a
// no-op; registering a different schema under a taken name is an error.
func (r *Registry) Register(s *Schema) error {
	if s == nil || s.Name == "" {
		return ErrNoName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, exists := r.schemas[s.Name]; exists && prev != s {
		return fmt.Errorf("schema %q already registered", s.Name)
	}
	r.schemas[s.Name] = s
	return nil
}

// Lookup returns the schema registered under tag.
func (r *Registry) Lookup(tag string) (*Schema, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[tag]
	return s, ok
}

// All returns the registered schemas ordered by name.
func (r *Registry) All() []*Schema {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := slices.Sorted(maps.Keys(r.schemas))
	res := make([]*Schema, len(names))
	for i, n := range names {
		res[i] = r.schemas[n]
	}
	return res
}

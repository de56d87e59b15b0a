package backend

import (
	"fmt"
	"sync"
)

// Registry manages generation backends and default selection
type Registry struct {
	backends       map[string]Generator
	defaultBackend string
	mu             sync.RWMutex
}

// NewRegistry creates a new backend registry
func NewRegistry(defaultBackend string) *Registry {
	return &Registry{
		backends:       make(map[string]Generator),
		defaultBackend: defaultBackend,
	}
}

// Register registers a generation backend
func (r *Registry) Register(g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[g.Name()] = g
}

// Get returns a backend by name, or the default when name is empty
func (r *Registry) Get(name string) (Generator, error) {
	if name == "" {
		name = r.defaultBackend
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("backend not found: %s", name)
	}
	return g, nil
}

// Default returns the configured default backend
func (r *Registry) Default() (Generator, error) {
	return r.Get("")
}

// List returns the registered backend names
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	return names
}

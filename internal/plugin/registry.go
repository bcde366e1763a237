package plugin

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a fresh plugin instance.
type Factory func() Plugin

// Loader turns a declared module path into a plugin.
type Loader interface {
	// Load returns a new instance of the plugin registered for modulePath.
	// ok is false when nothing is registered for it.
	Load(modulePath string) (p Plugin, ok bool)
}

// Registry is the in-process Loader: plugins are registered under their module path.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a plugin factory under modulePath.
// Returns an error if the path is already taken.
func (r *Registry) Register(modulePath string, factory Factory) error {
	if modulePath == "" {
		return fmt.Errorf("module path is required")
	}
	if factory == nil {
		return fmt.Errorf("cannot register nil factory for %s", modulePath)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[modulePath]; exists {
		return fmt.Errorf("plugin module %s already registered", modulePath)
	}
	r.factories[modulePath] = factory
	return nil
}

// Load implements Loader.
func (r *Registry) Load(modulePath string) (Plugin, bool) {
	r.mu.RLock()
	factory, ok := r.factories[modulePath]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Has checks if a module path is registered.
func (r *Registry) Has(modulePath string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[modulePath]
	return ok
}

// ModulePaths returns the registered module paths sorted ascending.
func (r *Registry) ModulePaths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.factories))
	for p := range r.factories {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Unregister removes a module path from the registry.
func (r *Registry) Unregister(modulePath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[modulePath]; !ok {
		return fmt.Errorf("plugin module %s not found", modulePath)
	}
	delete(r.factories, modulePath)
	return nil
}

// Count returns the number of registered module paths.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.factories)
}

// Package definitions maps schema definition names to constructors that
// build typed values from decoded response payloads. Generated clients
// register one constructor per named definition; the response mapper looks
// them up by the schema reference carried on an operation's response
// descriptor.
package definitions

import (
	"fmt"
	"sort"
	"sync"

	courierrors "github.com/tombee/courier/pkg/errors"
)

// Constructor builds a typed value from decoded payload data. The input is
// whatever the response decoder produced, typically map[string]any with
// json.Number leaves. Constructors must not retain or mutate the input.
type Constructor func(data any) (any, error)

// Registry maps definition names to constructors. Registration happens at
// client construction time; lookups are concurrent-safe afterwards.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry creates an empty definition registry.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
	}
}

// Register adds a constructor under a definition name.
// Returns an error if the name is empty, the constructor is nil, or the
// name is already registered.
func (r *Registry) Register(name string, ctor Constructor) error {
	if name == "" {
		return fmt.Errorf("definition name cannot be empty")
	}
	if ctor == nil {
		return fmt.Errorf("constructor for definition %q cannot be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[name]; exists {
		return fmt.Errorf("definition %q is already registered", name)
	}

	r.constructors[name] = ctor
	return nil
}

// Lookup returns the constructor registered under name, if any.
func (r *Registry) Lookup(name string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ctor, exists := r.constructors[name]
	return ctor, exists
}

// Build resolves the named constructor and applies it to data.
// Returns a NotFoundError if no constructor is registered under name.
func (r *Registry) Build(name string, data any) (any, error) {
	ctor, exists := r.Lookup(name)
	if !exists {
		return nil, &courierrors.NotFoundError{
			Resource: "definition",
			ID:       name,
		}
	}

	value, err := ctor(data)
	if err != nil {
		return nil, fmt.Errorf("building definition %q: %w", name, err)
	}
	return value, nil
}

// Has returns true if a constructor is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.constructors[name]
	return exists
}

// Names returns the registered definition names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

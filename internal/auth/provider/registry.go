package provider

import "fmt"

// Registry holds all configured provider adapters and allows lookup by
// name. It performs no auth logic itself.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry registers the given adapters by name. Names must be unique.
func NewRegistry(list ...Adapter) *Registry {
	m := make(map[string]Adapter)
	for _, a := range list {
		m[a.Name()] = a
	}
	return &Registry{adapters: m}
}

// Get returns the adapter by name or an error if not registered.
func (r *Registry) Get(name string) (Adapter, error) {
	a, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("unknown auth provider: %s", name)
	}
	return a, nil
}

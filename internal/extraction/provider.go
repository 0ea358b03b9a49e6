package extraction

import (
	"fmt"
	"sort"
)

// Registry resolves adapters by backend identity.
type Registry struct {
	adapters map[Backend]Adapter
}

// NewRegistry creates a registry holding the given adapters. A later adapter
// for the same backend replaces an earlier one.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[Backend]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Backend()] = a
	}
	return r
}

// DefaultRegistry wires every supported backend. cfgs may carry per-backend
// transport overrides; missing entries use public endpoints.
func DefaultRegistry(cfgs map[Backend]Config) *Registry {
	adapters := make([]Adapter, 0, len(Backends()))
	for _, b := range Backends() {
		a, _ := NewAdapter(b, cfgs[b])
		adapters = append(adapters, a)
	}
	return NewRegistry(adapters...)
}

// NewAdapter constructs the adapter for backend.
func NewAdapter(backend Backend, cfg Config) (Adapter, error) {
	switch backend {
	case BackendAnthropic:
		return NewAnthropicAdapter(cfg), nil
	case BackendOpenAI:
		return NewOpenAIAdapter(cfg), nil
	case BackendGroq:
		return NewGroqAdapter(cfg), nil
	}
	return nil, NewConfigurationError(backend, fmt.Sprintf("unknown backend %q", backend))
}

// Lookup returns the adapter for backend.
func (r *Registry) Lookup(backend Backend) (Adapter, error) {
	if backend == "" || backend == BackendNone {
		return nil, NewConfigurationError(backend, "no AI backend selected")
	}
	a, ok := r.adapters[backend]
	if !ok {
		return nil, NewConfigurationError(backend, fmt.Sprintf("unknown backend %q", backend))
	}
	return a, nil
}

// Backends lists registered backends in sorted order.
func (r *Registry) Backends() []Backend {
	out := make([]Backend, 0, len(r.adapters))
	for b := range r.adapters {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AvailableModels returns the models advertised for backend.
func (r *Registry) AvailableModels(backend Backend) ([]ModelInfo, error) {
	a, err := r.Lookup(backend)
	if err != nil {
		return nil, err
	}
	return a.AvailableModels(), nil
}

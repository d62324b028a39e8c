package generation

import (
	"context"
	"fmt"
	"strings"

	"genforge/internal/project"
)

// Backend produces a file plan for a prompt. Implementations perform exactly
// one remote call per Generate invocation and honor context cancellation.
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string) ([]project.Artifact, error)
}

// Registry resolves backend hints to configured backends.
type Registry struct {
	backends    map[string]Backend
	defaultName string
}

// NewRegistry builds a registry with the supplied default backend name.
func NewRegistry(defaultName string, backends ...Backend) *Registry {
	reg := &Registry{
		backends:    make(map[string]Backend, len(backends)),
		defaultName: strings.ToLower(strings.TrimSpace(defaultName)),
	}
	for _, backend := range backends {
		if backend == nil {
			continue
		}
		reg.backends[strings.ToLower(backend.Name())] = backend
	}
	return reg
}

// Resolve returns the backend for a hint, falling back to the default when the
// hint is empty or unknown. An unknown hint is not an error; the record keeps
// the hint for observability while generation proceeds on the default.
func (r *Registry) Resolve(hint string) (Backend, error) {
	if r == nil || len(r.backends) == 0 {
		return nil, fmt.Errorf("no generation backends configured")
	}
	name := strings.ToLower(strings.TrimSpace(hint))
	if name != "" {
		if backend, ok := r.backends[name]; ok {
			return backend, nil
		}
	}
	if backend, ok := r.backends[r.defaultName]; ok {
		return backend, nil
	}
	for _, backend := range r.backends {
		return backend, nil
	}
	return nil, fmt.Errorf("no generation backends configured")
}

// Names returns the registered backend names.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	return names
}

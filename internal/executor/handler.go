package executor

import (
	"context"
	"fmt"
	"sync"
)

// ParamSpec declares one parameter a Handler consumes. Parameters not in a
// handler's declared set are filtered out of the bound input map;
// declared-required parameters missing from the bound set fail the task.
type ParamSpec struct {
	Name     string
	Required bool
}

// Handler implements one Planner task kind (internal/tools holds the
// concrete implementations: setup_workspace, generate_texture,
// generate_code, generate_assets, generate_build_files,
// generate_fabric_metadata, generate_mixins, setup_gradle_wrapper, build).
type Handler interface {
	Kind() string
	Parameters() []ParamSpec
	Invoke(ctx context.Context, params map[string]any) (map[string]any, error)
}

// Registry binds task kinds to the Handler that executes them.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.Kind()] = h
}

func (r *Registry) Lookup(kind string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[kind]
	if !ok {
		return nil, fmt.Errorf("executor: no handler registered for task kind %q", kind)
	}
	return h, nil
}

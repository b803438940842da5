package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/aretw0/rail/pkg/ports"
)

// Registry implements ports.ModelStore in memory.
// Safe for concurrent use.
type Registry struct {
	data map[string]*ports.Model
	mu   sync.RWMutex
}

var _ ports.ModelStore = (*Registry)(nil)

// NewRegistry creates a new in-memory registry seeded with models.
func NewRegistry(models ...*ports.Model) *Registry {
	r := &Registry{data: make(map[string]*ports.Model, len(models))}
	for _, m := range models {
		r.data[m.Name] = clone(m)
	}
	return r
}

// Save stores a copy of the model.
func (r *Registry) Save(ctx context.Context, m *ports.Model) error {
	if m == nil || m.Name == "" {
		return errors.New("model name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[m.Name] = clone(m)
	return nil
}

// Lookup retrieves a copy of the model so callers can't mutate registry state.
func (r *Registry) Lookup(ctx context.Context, name string) (*ports.Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrModelNotFound, name)
	}
	return clone(m), nil
}

// List returns the registered model names.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.data))
	for name := range r.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func clone(m *ports.Model) *ports.Model {
	cp := *m
	cp.Fields = slices.Clone(m.Fields)
	return &cp
}

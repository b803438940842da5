package loam

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/rail/pkg/ports"
)

// Registry adapts a Loam document repository to ports.ModelStore. Each model
// is one document whose frontmatter holds the field list.
type Registry struct {
	Repo *loam.TypedRepository[ModelMetadata]
}

var (
	_ ports.ModelStore = (*Registry)(nil)
	_ ports.Watchable  = (*Registry)(nil)
)

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[ModelMetadata]) *Registry {
	return &Registry{Repo: repo}
}

// Open initializes a read-only Loam repository at path and wraps it.
func Open(path string) (*Registry, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ModelMetadata](repo)), nil
}

// Lookup loads the model document named name.
func (r *Registry) Lookup(ctx context.Context, name string) (*ports.Model, error) {
	doc, err := r.Repo.Get(ctx, name)
	if err != nil {
		names, listErr := r.List(ctx)
		if listErr == nil && !slices.Contains(names, name) {
			return nil, fmt.Errorf("%w: %s", ports.ErrModelNotFound, name)
		}
		return nil, fmt.Errorf("loam get failed for %s: %w", name, err)
	}
	return toModel(doc.ID, doc.Data, strings.TrimSpace(doc.Content)), nil
}

// Save writes the model as a document named after it.
func (r *Registry) Save(ctx context.Context, m *ports.Model) error {
	if m == nil || m.Name == "" {
		return errors.New("model name is required")
	}
	err := r.Repo.Save(ctx, &loam.DocumentModel[ModelMetadata]{
		ID:      m.Name,
		Content: m.Description,
		Data:    fromModel(m),
	})
	if err != nil {
		return fmt.Errorf("loam save failed for %s: %w", m.Name, err)
	}
	return nil
}

// List returns the names of all model documents.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	docs, err := r.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		name := doc.Data.Name
		if name == "" {
			name = trimExtension(doc.ID)
		}
		if existing, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: model '%s' is defined in both '%s' and '%s'", name, existing, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Watch implements ports.Watchable.
func (r *Registry) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := r.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- struct{}{}:
				default: // a reload is already pending
				}
			}
		}
	}()
	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

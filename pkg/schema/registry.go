package schema

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/rail/pkg/markup"
)

// Constructor builds a node from an element. Constructors recurse into
// children through the Builder.
type Constructor func(ctx context.Context, b *Builder, el *markup.Element) (*Node, error)

// Registry maps element tags to node constructors.
//
// A Registry is populated during initialization and frozen before use; after
// Freeze it is read-only and safe for concurrent lookups.
type Registry struct {
	mu      sync.RWMutex
	ctors   map[string]Constructor
	aliases map[string]string
	frozen  bool
}

// NewRegistry returns an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{
		ctors:   make(map[string]Constructor),
		aliases: make(map[string]string),
	}
}

// DefaultRegistry returns a fresh frozen registry holding every built-in kind.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for k := KindString; k <= KindModel; k++ {
		_ = r.Register(k.String(), KindConstructor(k))
	}
	_ = r.Alias("boolean", KindBool.String())
	_ = r.Alias("pydantic", KindModel.String())
	r.Freeze()
	return r
}

// Register binds tag to ctor, replacing any previous binding.
func (r *Registry) Register(tag string, ctor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("%w: register %q", ErrRegistryFrozen, tag)
	}
	if tag == "" || ctor == nil {
		return fmt.Errorf("schema: register requires a tag and a constructor")
	}
	r.ctors[tag] = ctor
	delete(r.aliases, tag)
	return nil
}

// Alias makes alias resolve to the constructor registered under tag. Nodes
// built from an alias carry the canonical tag.
func (r *Registry) Alias(alias, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("%w: alias %q", ErrRegistryFrozen, alias)
	}
	if _, ok := r.ctors[tag]; !ok {
		return &UnknownTypeError{Tag: tag}
	}
	r.aliases[alias] = tag
	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Lookup returns the constructor registered for tag or one of its aliases.
func (r *Registry) Lookup(tag string) (Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.ctors[r.canonical(tag)]
	if !ok {
		return nil, &UnknownTypeError{Tag: tag}
	}
	return ctor, nil
}

// Canonical resolves an alias to the tag it stands for. Other tags are
// returned unchanged.
func (r *Registry) Canonical(tag string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.canonical(tag)
}

func (r *Registry) canonical(tag string) string {
	if target, ok := r.aliases[tag]; ok {
		return target
	}
	return tag
}

// Tags lists registered tags and aliases in lexical order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.ctors)+len(r.aliases))
	for t := range r.ctors {
		tags = append(tags, t)
	}
	for a := range r.aliases {
		tags = append(tags, a)
	}
	sort.Strings(tags)
	return tags
}

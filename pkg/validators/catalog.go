package validators

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/aretw0/rail/pkg/ports"
)

// Factory turns parsed directive arguments into a Check.
type Factory func(args []any) (Check, error)

// Spec declares a validator for the Catalog.
type Spec struct {
	Name     string
	Tags     []string // Element tags the validator applies to
	MinArgs  int
	MaxArgs  int      // -1 for variadic
	Keywords []string // Argument names used by Render(true)
	Factory  Factory
}

// Catalog implements ports.Catalog over a set of validator specs.
type Catalog struct {
	mu    sync.RWMutex
	specs map[string]Spec
}

var _ ports.Catalog = (*Catalog)(nil)

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{specs: make(map[string]Spec)}
}

// New creates a catalog holding every built-in validator.
func New() *Catalog {
	c := NewCatalog()
	for _, s := range builtins() {
		c.Register(s)
	}
	return c
}

// Register adds a validator spec.
// If a validator with the same name exists, it is overwritten.
func (c *Catalog) Register(s Spec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.specs[s.Name] = s
}

// Applicable returns the validators usable on tag in lexical order.
func (c *Catalog) Applicable(tag string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var names []string
	for name, s := range c.specs {
		if slices.Contains(s.Tags, tag) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Build constructs the named validator.
func (c *Catalog) Build(name string, args []any, onFail ports.OnFailPolicy) (ports.Validator, error) {
	c.mu.RLock()
	s, ok := c.specs[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("validator not found: %s", name)
	}

	if len(args) < s.MinArgs || (s.MaxArgs >= 0 && len(args) > s.MaxArgs) {
		return nil, fmt.Errorf("%s: %s", name, arity(s, len(args)))
	}
	policy, err := ParsePolicy(onFail)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	check, err := s.Factory(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &Validator{
		name:     name,
		args:     args,
		keywords: s.Keywords,
		policy:   policy,
		check:    check,
	}, nil
}

func arity(s Spec, got int) string {
	switch {
	case s.MaxArgs < 0:
		return fmt.Sprintf("expected at least %d arguments, got %d", s.MinArgs, got)
	case s.MinArgs == s.MaxArgs:
		return fmt.Sprintf("expected %d arguments, got %d", s.MinArgs, got)
	}
	return fmt.Sprintf("expected %d to %d arguments, got %d", s.MinArgs, s.MaxArgs, got)
}

package dsl

import (
	"fmt"

	"github.com/aretw0/rail/pkg/markup"
)

// Builder manages the schema construction.
type Builder struct {
	fields []*NodeBuilder
	byName map[string]*NodeBuilder
}

// New creates a new schema builder.
func New() *Builder {
	return &Builder{
		byName: make(map[string]*NodeBuilder),
	}
}

// Add declares a top-level field of the output object.
// If a field with that name already exists, it returns the existing builder.
func (b *Builder) Add(tag, name string) *NodeBuilder {
	if nb, ok := b.byName[name]; ok {
		return nb
	}
	nb := newNode(tag, name)
	b.fields = append(b.fields, nb)
	b.byName[name] = nb
	return nb
}

// Build compiles the declared fields into a <rail><output> document that
// can be passed to rail.New or schema.Load.
func (b *Builder) Build() (*markup.Element, error) {
	out := &markup.Element{Tag: "output"}
	for _, nb := range b.fields {
		el, err := nb.element()
		if err != nil {
			return nil, fmt.Errorf("failed to build field %q: %w", nb.name, err)
		}
		out.Children = append(out.Children, el)
	}
	return &markup.Element{Tag: "rail", Children: []*markup.Element{out}}, nil
}

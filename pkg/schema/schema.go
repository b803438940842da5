package schema

import (
	"context"
	"fmt"

	"github.com/aretw0/rail/pkg/domain"
	"github.com/aretw0/rail/pkg/markup"
)

// Schema is a built output document: an unnamed object at its root.
type Schema struct {
	root *Node
}

// Load builds the schema described by a `<rail><output>...</output></rail>`
// document or by a bare `<output>` element.
func Load(ctx context.Context, doc *markup.Element, opts ...Option) (*Schema, error) {
	b := NewBuilder(opts...)
	out, err := outputElement(doc)
	if err != nil {
		return nil, err
	}
	root, err := b.node(ctx, KindObject, out, false)
	if err != nil {
		return nil, err
	}
	if err := b.flush(); err != nil {
		return nil, err
	}
	return &Schema{root: root}, nil
}

// Lint builds doc collecting every construction error instead of stopping
// at the first one. It returns nil for a valid document.
func Lint(ctx context.Context, doc *markup.Element, opts ...Option) error {
	_, err := Load(ctx, doc, append(opts, WithCollectErrors())...)
	return err
}

func outputElement(doc *markup.Element) (*markup.Element, error) {
	switch doc.Tag {
	case "output":
		return doc, nil
	case "rail":
		if out := doc.Child("output"); out != nil {
			return out, nil
		}
		return nil, &SchemaError{Tag: doc.Tag, Line: doc.Line, Reason: "missing <output> element"}
	}
	return nil, &SchemaError{Tag: doc.Tag, Line: doc.Line, Reason: "document root must be <rail> or <output>"}
}

// Root returns the root object node.
func (s *Schema) Root() *Node { return s.root }

// Validate validates data against the schema and returns the corrected
// document. data is modified in place; callers that need to keep the
// original should pass a copy.
func (s *Schema) Validate(ctx context.Context, data map[string]any) (map[string]any, error) {
	holder := domain.Object{}
	if _, err := s.root.Validate(ctx, domain.FieldKey(""), mapValue(data), holder); err != nil {
		return nil, err
	}
	out, ok := holder[""]
	if !ok || out == nil {
		return nil, nil
	}
	doc, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema: root was corrected to %T", out)
	}
	return doc, nil
}

// Package schema builds typed schema trees from markup documents and walks
// them against runtime values to coerce, validate and correct those values.
//
// A tree is built once from a document and is immutable afterwards, so it can
// be shared by concurrent validation calls:
//
//	reg := schema.DefaultRegistry()
//	root, err := markup.ParseString(`<output>
//	    <string name="name" format="two-words" on-fail-two-words="fix"/>
//	    <list name="scores"><integer format="valid-range: 0 10"/></list>
//	</output>`)
//
//	s, err := schema.Load(ctx, root,
//	    schema.WithRegistry(reg),
//	    schema.WithCatalog(validators.New()),
//	)
//
//	out, err := s.Validate(ctx, map[string]any{
//	    "name":   "ada",
//	    "scores": []any{"1", 2},
//	})
//
// Every element tag is resolved through a Registry. Each node parses its
// `format` directive once and binds the named validators through a
// ports.Catalog; validators that do not apply to the tag are recorded as
// unregistered (lenient mode) or rejected (strict mode).
//
// Validation threads a domain.Container through the tree. Scalars store
// their coerced value under their key before running validators, lists
// validate every element in place, objects insert an entry (nil when
// absent) for every declared child, and choices dispatch to the case named
// by the runtime selector.
//
// Errors raised below the root are wrapped in a *PathError that names the
// failing location and unwraps to the original typed error.
package schema

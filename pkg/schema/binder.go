package schema

import (
	"log/slog"
	"slices"

	"github.com/aretw0/rail/pkg/directive"
	"github.com/aretw0/rail/pkg/ports"
)

// Binding is a directive entry resolved to a constructed validator.
type Binding struct {
	Name      string
	Args      []any
	OnFail    ports.OnFailPolicy
	Validator ports.Validator
}

// Attrs exposes element attributes to the Binder.
type Attrs interface {
	Attr(name string) (string, bool)
}

// Binder resolves parsed directives against a Catalog.
type Binder struct {
	Catalog ports.Catalog
	Strict  bool
	Logger  *slog.Logger
}

// Bind resolves every directive entry for tag, in directive order. It returns
// the bound validators and, in lenient mode, the names that do not apply to
// tag.
func (b Binder) Bind(tag string, d directive.Directive, attrs Attrs) ([]Binding, []string, error) {
	if len(d) == 0 {
		return nil, nil, nil
	}
	var applicable []string
	if b.Catalog != nil {
		applicable = b.Catalog.Applicable(tag)
	}

	var (
		bindings     []Binding
		unregistered []string
	)
	for _, tok := range d {
		if !slices.Contains(applicable, tok.Name) {
			if b.Strict {
				return nil, nil, &BindingError{Tag: tag, Validator: tok.Name, Err: errNotApplicable}
			}
			if b.Logger != nil {
				b.Logger.Warn("validator is not valid for element", "validator", tok.Name, "tag", tag)
			}
			unregistered = append(unregistered, tok.Name)
			continue
		}
		binding, err := b.build(tag, tok.Name, tok.Args, attrs)
		if err != nil {
			return nil, nil, err
		}
		bindings = append(bindings, binding)
	}
	return bindings, unregistered, nil
}

// build constructs a single validator, reading its on-fail-<name> policy.
func (b Binder) build(tag, name string, args []any, attrs Attrs) (Binding, error) {
	var onFail ports.OnFailPolicy
	if attrs != nil {
		if v, ok := attrs.Attr("on-fail-" + name); ok {
			onFail = ports.OnFailPolicy(v)
		}
	}
	v, err := b.Catalog.Build(name, args, onFail)
	if err != nil {
		return Binding{}, &BindingError{Tag: tag, Validator: name, Err: err}
	}
	return Binding{Name: name, Args: args, OnFail: onFail, Validator: v}, nil
}

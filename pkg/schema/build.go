package schema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/rail/pkg/directive"
	"github.com/aretw0/rail/pkg/markup"
	"github.com/aretw0/rail/pkg/ports"
)

// Option configures a Builder.
type Option func(*Builder)

// WithRegistry sets the tag registry. Defaults to DefaultRegistry().
func WithRegistry(r *Registry) Option {
	return func(b *Builder) { b.registry = r }
}

// WithCatalog sets the validator catalog. Without a catalog every directive
// entry is unregistered.
func WithCatalog(c ports.Catalog) Option {
	return func(b *Builder) { b.binder.Catalog = c }
}

// WithModels sets the registry used to resolve model-bound nodes.
func WithModels(m ports.ModelRegistry) Option {
	return func(b *Builder) { b.models = m }
}

// WithStrict rejects directive entries that do not apply to their element.
func WithStrict(strict bool) Option {
	return func(b *Builder) { b.binder.Strict = strict }
}

// WithLogger sets the logger used for build warnings.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithHooks attaches lifecycle callbacks to every node of the built tree.
func WithHooks(h Hooks) Option {
	return func(b *Builder) { b.hooks = &h }
}

// WithCollectErrors makes the Builder skip failing elements and report all
// failures at the end as an *AggregateError.
func WithCollectErrors() Option {
	return func(b *Builder) { b.collect = true }
}

// Builder constructs schema trees. A Builder is not safe for concurrent use;
// the trees it returns are.
type Builder struct {
	registry *Registry
	binder   Binder
	models   ports.ModelRegistry
	logger   *slog.Logger
	hooks    *Hooks
	collect  bool
	errs     []error
}

// NewBuilder creates a Builder with the given options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.registry == nil {
		b.registry = DefaultRegistry()
	}
	if b.logger == nil {
		b.logger = slog.New(slog.DiscardHandler)
	}
	b.binder.Logger = b.logger
	if b.hooks == nil {
		b.hooks = &Hooks{}
	}
	return b
}

// Build constructs the node for el through the registry.
func Build(ctx context.Context, el *markup.Element, opts ...Option) (*Node, error) {
	b := NewBuilder(opts...)
	n, err := b.Build(ctx, el)
	if err != nil {
		return nil, err
	}
	return n, b.flush()
}

// Build dispatches el to the constructor registered for its tag.
func (b *Builder) Build(ctx context.Context, el *markup.Element) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctor, err := b.registry.Lookup(el.Tag)
	if err != nil {
		var ute *UnknownTypeError
		if errors.As(err, &ute) {
			ute.Line = el.Line
		}
		return nil, err
	}
	return ctor(ctx, b, el)
}

// Strict reports whether the Builder rejects unregistered validators.
func (b *Builder) Strict() bool { return b.binder.Strict }

// Logger returns the Builder's logger.
func (b *Builder) Logger() *slog.Logger { return b.logger }

// flush returns the errors collected so far, if any.
func (b *Builder) flush() error {
	if len(b.errs) == 0 {
		return nil
	}
	errs := b.errs
	b.errs = nil
	return &AggregateError{Errors: errs}
}

// KindConstructor returns the built-in constructor for k. It lets custom
// tags reuse a built-in kind:
//
//	reg.Register("phone", schema.KindConstructor(schema.KindString))
func KindConstructor(k Kind) Constructor {
	return func(ctx context.Context, b *Builder, el *markup.Element) (*Node, error) {
		return b.node(ctx, k, el, true)
	}
}

// node runs the construction steps shared by every kind, then the
// kind-specific ones.
func (b *Builder) node(ctx context.Context, k Kind, el *markup.Element, named bool) (*Node, error) {
	n := &Node{
		kind:  k,
		tag:   b.registry.Canonical(el.Tag),
		line:  el.Line,
		hooks: b.hooks,
	}
	n.name, _ = el.Attr("name")
	n.description, _ = el.Attr("description")
	if named && n.name == "" {
		return nil, b.schemaErr(n, "missing required attribute \"name\"", nil)
	}

	if k == KindModel {
		return b.model(ctx, n, el)
	}

	n.format, _ = el.Attr("format")
	if err := b.bind(n, n.format, el); err != nil {
		return nil, err
	}

	switch k {
	case KindString, KindInteger, KindFloat, KindBool, KindEmail, KindURL, KindPercentage:
		return n, b.noChildren(n, el)
	case KindDate:
		return n, b.temporal(n, el, "date-format", defaultDateFormat)
	case KindTime:
		return n, b.temporal(n, el, "time-format", defaultTimeFormat)
	case KindList:
		return n, b.list(ctx, n, el)
	case KindObject:
		return n, b.object(ctx, n, el.Children)
	case KindChoice:
		return n, b.choice(ctx, n, el)
	case KindCase:
		return n, b.caseNode(ctx, n, el)
	}
	return nil, b.schemaErr(n, fmt.Sprintf("unhandled kind %s", k), nil)
}

func (b *Builder) bind(n *Node, format string, attrs Attrs) error {
	if format == "" {
		return nil
	}
	d, err := directive.Parse(format)
	if err != nil {
		return b.schemaErr(n, "invalid format", err)
	}
	n.directive = d
	n.bindings, n.unregistered, err = b.binder.Bind(n.tag, d, attrs)
	return err
}

func (b *Builder) noChildren(n *Node, el *markup.Element) error {
	if len(el.Children) > 0 {
		return b.schemaErr(n, "scalar types must not have children", nil)
	}
	return nil
}

func (b *Builder) temporal(n *Node, el *markup.Element, attr, def string) error {
	if err := b.noChildren(n, el); err != nil {
		return err
	}
	n.timeFormat = el.AttrOr(attr, def)
	layout, err := translateLayout(n.timeFormat)
	if err != nil {
		return b.schemaErr(n, "invalid "+attr, err)
	}
	n.layout = layout
	return nil
}

func (b *Builder) list(ctx context.Context, n *Node, el *markup.Element) error {
	if len(el.Children) > 1 {
		return b.schemaErr(n, "list must have at most one child", nil)
	}
	if len(el.Children) == 0 {
		return nil
	}
	item, err := b.Build(ctx, withName(el.Children[0], "item"))
	if err != nil {
		return b.recover(err)
	}
	n.children = []*Node{item}
	n.index = map[string]*Node{"item": item}
	return nil
}

func (b *Builder) object(ctx context.Context, n *Node, children []*markup.Element) error {
	n.index = make(map[string]*Node, len(children))
	for _, el := range children {
		child, err := b.Build(ctx, el)
		if err != nil {
			if err = b.recover(err); err != nil {
				return err
			}
			continue
		}
		if err := b.addChild(n, child); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) addChild(n, child *Node) error {
	if _, dup := n.index[child.name]; dup {
		return b.recover(b.schemaErr(n, fmt.Sprintf("duplicate child %q", child.name), nil))
	}
	n.children = append(n.children, child)
	n.index[child.name] = child
	return nil
}

func (b *Builder) choice(ctx context.Context, n *Node, el *markup.Element) error {
	if err := b.object(ctx, n, el.Children); err != nil {
		return err
	}
	names := make([]any, 0, len(n.children))
	for _, c := range n.children {
		if c.kind != KindCase {
			return b.schemaErr(n, fmt.Sprintf("choice children must be cases, got %s", c), nil)
		}
		names = append(names, c.name)
	}
	if b.binder.Catalog == nil {
		return nil
	}
	choice, err := b.binder.build(n.tag, "choice", names, el)
	if err != nil {
		return err
	}
	n.synthetic = []Binding{choice}
	return nil
}

func (b *Builder) caseNode(ctx context.Context, n *Node, el *markup.Element) error {
	if len(el.Children) != 1 {
		return b.schemaErr(n, "case must have exactly one child", nil)
	}
	child, err := b.Build(ctx, withName(el.Children[0], n.name))
	if err != nil {
		return err
	}
	n.children = []*Node{child}
	n.index = map[string]*Node{child.name: child}
	return nil
}

// model builds a deprecated model-bound node: an object whose children come
// from a registered model definition.
func (b *Builder) model(ctx context.Context, n *Node, el *markup.Element) (*Node, error) {
	b.logger.Warn("the <model> data type is deprecated, use <object> instead", "name", n.name, "line", n.line)

	if _, ok := el.Attr("format"); ok {
		return nil, b.schemaErr(n, "model does not support the format attribute", nil)
	}
	name, ok := el.Attr("model")
	if !ok || name == "" {
		return nil, b.schemaErr(n, "missing required attribute \"model\"", nil)
	}
	n.model = name
	if b.models == nil {
		return nil, &UnknownModelError{Model: name, Err: ports.ErrModelNotFound}
	}
	m, err := b.models.Lookup(ctx, name)
	if err != nil {
		return nil, &UnknownModelError{Model: name, Err: err}
	}

	n.format = m.Directive
	if err := b.bind(n, n.format, el); err != nil {
		return nil, err
	}
	if n.description == "" {
		n.description = m.Description
	}

	n.index = make(map[string]*Node, len(m.Fields))
	for _, f := range m.Fields {
		child, err := b.Build(ctx, fieldElement(f, n.line))
		if err != nil {
			if err = b.recover(err); err != nil {
				return nil, err
			}
			continue
		}
		if err := b.addChild(n, child); err != nil {
			return nil, err
		}
	}
	for _, cel := range el.Children {
		child, err := b.Build(ctx, cel)
		if err != nil {
			if err = b.recover(err); err != nil {
				return nil, err
			}
			continue
		}
		if err := b.addChild(n, child); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// recover records err and swallows it when collecting errors.
func (b *Builder) recover(err error) error {
	if !b.collect || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	b.errs = append(b.errs, err)
	return nil
}

func (b *Builder) schemaErr(n *Node, reason string, cause error) error {
	if cause != nil {
		reason = reason + ": " + cause.Error()
	}
	return &SchemaError{Tag: n.tag, Name: n.name, Line: n.line, Reason: reason, Err: cause}
}

// withName returns el, or a shallow copy named name when el has no name.
func withName(el *markup.Element, name string) *markup.Element {
	if _, ok := el.Attr("name"); ok {
		return el
	}
	cp := *el
	cp.Attrs = append([]markup.Attr{{Name: "name", Value: name}}, el.Attrs...)
	return &cp
}

func fieldElement(f ports.ModelField, line int) *markup.Element {
	el := &markup.Element{Tag: f.Type, Line: line}
	el.Attrs = append(el.Attrs, markup.Attr{Name: "name", Value: f.Name})
	if f.Description != "" {
		el.Attrs = append(el.Attrs, markup.Attr{Name: "description", Value: f.Description})
	}
	if f.Directive != "" {
		el.Attrs = append(el.Attrs, markup.Attr{Name: "format", Value: f.Directive})
	}
	return el
}

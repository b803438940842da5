package schema

import (
	"slices"
	"strings"

	"github.com/aretw0/rail/pkg/directive"
	"github.com/aretw0/rail/pkg/domain"
)

// Hooks are the lifecycle callbacks fired while a tree is walked.
type Hooks = domain.Hooks

// Node is one element of a built schema tree. Nodes are immutable once
// Build returns.
type Node struct {
	kind        Kind
	tag         string
	name        string
	description string
	line        int

	format       string // raw `format` attribute
	directive    directive.Directive
	synthetic    []Binding // run before the declared bindings
	bindings     []Binding
	unregistered []string

	children []*Node
	index    map[string]*Node

	timeFormat string // strftime form, date and time kinds
	layout     string // Go layout derived from timeFormat
	model      string

	hooks *Hooks
}

func (n *Node) Kind() Kind          { return n.kind }
func (n *Node) Tag() string         { return n.tag }
func (n *Node) Name() string        { return n.name }
func (n *Node) Description() string { return n.description }

// Format returns the raw directive the node was declared with.
func (n *Node) Format() string { return n.format }

// Model returns the model name of a model-bound node.
func (n *Node) Model() string { return n.model }

// TimeFormat returns the strftime-style format of date and time nodes.
func (n *Node) TimeFormat() string { return n.timeFormat }

// Children returns the child nodes in declaration order. A list has at most
// one child, its item definition.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Child returns the child declared under name.
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.index[name]
	return c, ok
}

// Item returns the element definition of a list node.
func (n *Node) Item() (*Node, bool) {
	if n.kind != KindList || len(n.children) == 0 {
		return nil, false
	}
	return n.children[0], true
}

// Bindings returns the validators bound from the node's directive, in
// directive order.
func (n *Node) Bindings() []Binding {
	return slices.Clone(n.bindings)
}

// Unregistered returns directive names that do not apply to the node's type.
func (n *Node) Unregistered() []string {
	return slices.Clone(n.unregistered)
}

// Directive renders the bound validators followed by the unregistered names,
// joined with "; ".
func (n *Node) Directive(withKeywords bool) string {
	parts := make([]string, 0, len(n.bindings)+len(n.unregistered))
	for _, b := range n.bindings {
		parts = append(parts, b.Validator.Render(withKeywords))
	}
	parts = append(parts, n.unregistered...)
	return strings.Join(parts, "; ")
}

func (n *Node) String() string {
	if n.name == "" {
		return "<" + n.tag + ">"
	}
	return "<" + n.tag + " name=\"" + n.name + "\">"
}

package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/rail/pkg/markup"
)

// ErrEmptyName is returned by Build when a field or case was declared
// without a name.
var ErrEmptyName = errors.New("name must not be empty")

// NodeBuilder provides a fluent API for configuring a schema node.
type NodeBuilder struct {
	tag      string
	name     string
	unnamed  bool
	attrs    []markup.Attr
	children []*NodeBuilder
}

func newNode(tag, name string) *NodeBuilder {
	return &NodeBuilder{tag: tag, name: name}
}

// Format sets the format directive, e.g. "length: 1 10; lower-case".
func (n *NodeBuilder) Format(directive string) *NodeBuilder {
	return n.Attr("format", directive)
}

// Describe sets the human-readable description of the node.
func (n *NodeBuilder) Describe(text string) *NodeBuilder {
	return n.Attr("description", text)
}

// OnFail sets the on-fail policy of one bound validator.
func (n *NodeBuilder) OnFail(validator, policy string) *NodeBuilder {
	return n.Attr("on-fail-"+validator, policy)
}

// Layout sets the date-format or time-format attribute of temporal nodes.
func (n *NodeBuilder) Layout(layout string) *NodeBuilder {
	switch n.tag {
	case "time":
		return n.Attr("time-format", layout)
	default:
		return n.Attr("date-format", layout)
	}
}

// Model binds a model node to a registered model definition.
func (n *NodeBuilder) Model(name string) *NodeBuilder {
	return n.Attr("model", name)
}

// Attr sets an arbitrary attribute, replacing a previous value.
func (n *NodeBuilder) Attr(name, value string) *NodeBuilder {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			return n
		}
	}
	n.attrs = append(n.attrs, markup.Attr{Name: name, Value: value})
	return n
}

// Field declares a named child of an object or model node and returns it.
func (n *NodeBuilder) Field(tag, name string) *NodeBuilder {
	child := newNode(tag, name)
	n.children = append(n.children, child)
	return child
}

// Item declares the element type of a list node and returns it.
// Calling Item again replaces the previous element type.
func (n *NodeBuilder) Item(tag string) *NodeBuilder {
	child := newNode(tag, "")
	child.unnamed = true
	n.children = []*NodeBuilder{child}
	return child
}

// Case declares one alternative of a choice node whose value has the
// given tag, and returns the value's builder.
func (n *NodeBuilder) Case(name, tag string) *NodeBuilder {
	c := newNode("case", name)
	n.children = append(n.children, c)
	return c.Item(tag)
}

func (n *NodeBuilder) element() (*markup.Element, error) {
	el := &markup.Element{Tag: n.tag}
	if !n.unnamed {
		if n.name == "" {
			return nil, fmt.Errorf("<%s>: %w", n.tag, ErrEmptyName)
		}
		el.Attrs = append(el.Attrs, markup.Attr{Name: "name", Value: n.name})
	}
	el.Attrs = append(el.Attrs, n.attrs...)
	for _, c := range n.children {
		cel, err := c.element()
		if err != nil {
			return nil, err
		}
		el.Children = append(el.Children, cel)
	}
	return el, nil
}

package schema

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/rail/pkg/domain"
)

// Validate coerces raw, runs the node's validators and recurses into its
// children, threading c through every step. It returns the container,
// possibly corrected.
//
// The node's value is stored under key before validators run, so a
// corrected container validates to itself.
func (n *Node) Validate(ctx context.Context, key domain.Key, raw any, c domain.Container) (domain.Container, error) {
	var path domain.Path
	if key.Positional() || key.Field() != "" {
		path = domain.Path{key}
	}
	return n.validate(ctx, path, key, raw, c)
}

func (n *Node) validate(ctx context.Context, path domain.Path, key domain.Key, raw any, c domain.Container) (out domain.Container, err error) {
	if err := ctx.Err(); err != nil {
		return c, err
	}
	if n.hooks.OnNodeEnter != nil {
		n.hooks.OnNodeEnter(ctx, n.nodeEvent(ctx, domain.EventNodeEnter, path, nil))
	}
	if n.hooks.OnNodeLeave != nil {
		defer func() {
			n.hooks.OnNodeLeave(ctx, n.nodeEvent(ctx, domain.EventNodeLeave, path, err))
		}()
	}

	switch n.kind {
	case KindString, KindInteger, KindFloat, KindBool, KindDate, KindTime, KindEmail, KindURL, KindPercentage:
		return n.validateScalar(ctx, path, key, raw, c)
	case KindList:
		return n.validateList(ctx, path, key, raw, c)
	case KindObject, KindModel:
		return n.validateObject(ctx, path, key, raw, c)
	case KindChoice:
		return n.validateChoice(ctx, path, key, raw, c)
	case KindCase:
		return n.validateCase(ctx, path, key, raw, c)
	}
	return c, fmt.Errorf("schema: unhandled kind %s", n.kind)
}

func (n *Node) validateScalar(ctx context.Context, path domain.Path, key domain.Key, raw any, c domain.Container) (domain.Container, error) {
	typed, err := n.coerce(raw)
	if err != nil {
		return c, at(path, &TypeCoercionError{Tag: n.tag, Value: raw, Err: err})
	}
	if err := c.Set(key, typed); err != nil {
		return c, at(path, err)
	}
	c, _, _, err = n.runValidators(ctx, path, key, typed, c)
	return c, err
}

func (n *Node) validateList(ctx context.Context, path domain.Path, key domain.Key, raw any, c domain.Container) (domain.Container, error) {
	list, ok := asList(raw)
	if !ok {
		return c, at(path, &TypeCoercionError{Tag: n.tag, Value: raw})
	}
	if err := c.Set(key, listValue(list)); err != nil {
		return c, at(path, err)
	}
	c, value, present, err := n.runValidators(ctx, path, key, listValue(list), c)
	if err != nil || !present || value == nil || len(n.children) == 0 {
		return c, err
	}
	if list, ok = asList(value); !ok {
		return c, at(path, &TypeCoercionError{Tag: n.tag, Value: value})
	}

	item := n.children[0]
	items := domain.Items(list)
	for i := range items {
		k := domain.IndexKey(i)
		out, err := item.validate(ctx, path.Append(k), k, items[i], items)
		if err != nil {
			return c, err
		}
		if it, ok := out.(domain.Items); ok {
			items = it
		}
	}
	if err := c.Set(key, []any(items)); err != nil {
		return c, at(path, err)
	}
	return c, nil
}

func (n *Node) validateObject(ctx context.Context, path domain.Path, key domain.Key, raw any, c domain.Container) (domain.Container, error) {
	m, ok := asMap(raw)
	if !ok {
		return c, at(path, &TypeCoercionError{Tag: n.tag, Value: raw})
	}
	if err := c.Set(key, mapValue(m)); err != nil {
		return c, at(path, err)
	}
	c, value, present, err := n.runValidators(ctx, path, key, mapValue(m), c)
	if err != nil || !present || value == nil {
		return c, err
	}
	if m, ok = asMap(value); !ok {
		return c, at(path, &TypeCoercionError{Tag: n.tag, Value: value})
	}

	obj := domain.Object(m)
	for _, child := range n.children {
		k := domain.FieldKey(child.name)
		out, err := child.validate(ctx, path.Append(k), k, obj[child.name], obj)
		if err != nil {
			return c, err
		}
		if o, ok := out.(domain.Object); ok {
			obj = o
		}
	}
	if err := c.Set(key, map[string]any(obj)); err != nil {
		return c, at(path, err)
	}
	return c, nil
}

func (n *Node) validateChoice(ctx context.Context, path domain.Path, key domain.Key, raw any, c domain.Container) (domain.Container, error) {
	selector, ok := raw.(string)
	if !ok {
		return c, at(path, n.selectorErr(fmt.Sprintf("selector must be a string, got %T", raw)))
	}
	if err := c.Set(key, selector); err != nil {
		return c, at(path, err)
	}
	c, value, present, err := n.runValidators(ctx, path, key, selector, c)
	if err != nil || !present {
		return c, err
	}
	if selector, ok = value.(string); !ok {
		return c, at(path, n.selectorErr(fmt.Sprintf("selector must be a string, got %T", value)))
	}

	branch, ok := n.index[selector]
	if !ok {
		return c, at(path, n.selectorErr(fmt.Sprintf("selector %q names no declared case", selector)))
	}
	k := domain.FieldKey(selector)
	value, _ = c.Get(k)
	c, err = branch.validate(ctx, sibling(path, k), k, value, c)
	if err != nil {
		return c, err
	}
	if err := c.Set(key, selector); err != nil {
		return c, at(path, err)
	}
	return c, nil
}

func (n *Node) validateCase(ctx context.Context, path domain.Path, key domain.Key, raw any, c domain.Container) (domain.Container, error) {
	c, _, _, err := n.runValidators(ctx, path, key, raw, c)
	if err != nil {
		return c, err
	}
	c, err = n.children[0].validate(ctx, path, key, raw, c)
	if err != nil {
		return c, err
	}
	if _, ok := c.Get(key); !ok {
		if err := c.Set(key, raw); err != nil {
			return c, at(path, err)
		}
	}
	return c, nil
}

// runValidators applies the synthetic then the declared bindings in order.
// Each validator sees the value currently stored under key, so corrections
// chain. It returns the final value and whether the entry still exists; a
// validator that removes the entry ends the chain.
func (n *Node) runValidators(ctx context.Context, path domain.Path, key domain.Key, value any, c domain.Container) (domain.Container, any, bool, error) {
	for _, set := range [2][]Binding{n.synthetic, n.bindings} {
		for _, b := range set {
			if err := ctx.Err(); err != nil {
				return c, value, true, err
			}
			if n.hooks.OnValidatorCall != nil {
				n.hooks.OnValidatorCall(ctx, n.validatorEvent(ctx, domain.EventValidatorCall, path, b.Name, nil))
			}
			out, err := b.Validator.Validate(ctx, key, value, c)
			if n.hooks.OnValidatorReturn != nil {
				n.hooks.OnValidatorReturn(ctx, n.validatorEvent(ctx, domain.EventValidatorReturn, path, b.Name, err))
			}
			if err != nil {
				return c, value, true, at(path, err)
			}
			if out != nil {
				c = out
			}
			v, ok := c.Get(key)
			if !ok {
				return c, nil, false, nil
			}
			value = v
		}
	}
	return c, value, true, nil
}

func (n *Node) selectorErr(reason string) error {
	return &SchemaError{Tag: n.tag, Name: n.name, Line: n.line, Reason: reason}
}

func (n *Node) nodeEvent(ctx context.Context, t domain.EventType, path domain.Path, err error) *domain.NodeEvent {
	return &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: t, CallID: domain.CallID(ctx)},
		Path:      path.String(),
		Tag:       n.tag,
		Err:       err,
	}
}

func (n *Node) validatorEvent(ctx context.Context, t domain.EventType, path domain.Path, name string, err error) *domain.ValidatorEvent {
	return &domain.ValidatorEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: t, CallID: domain.CallID(ctx)},
		Path:      path.String(),
		Tag:       n.tag,
		Validator: name,
		Err:       err,
	}
}

// at locates err at path. Errors that already carry a location are returned
// unchanged so the innermost path wins.
func at(path domain.Path, err error) error {
	if _, ok := err.(*PathError); ok {
		return err
	}
	return &PathError{Path: path, Err: err}
}

// sibling returns the path of key next to the last element of path.
func sibling(path domain.Path, key domain.Key) domain.Path {
	if len(path) == 0 {
		return domain.Path{key}
	}
	return path[:len(path)-1].Append(key)
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case nil:
		return nil, true
	case []any:
		return l, true
	case domain.Items:
		return l, true
	}
	return nil, false
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case nil:
		return nil, true
	case map[string]any:
		return m, true
	case domain.Object:
		return m, true
	}
	return nil, false
}

// listValue and mapValue keep absent composites as an untyped nil.
func listValue(l []any) any {
	if l == nil {
		return nil
	}
	return l
}

func mapValue(m map[string]any) any {
	if m == nil {
		return nil
	}
	return m
}

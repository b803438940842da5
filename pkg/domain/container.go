package domain

import "fmt"

// Container is the mutable structure threaded through a validation call.
// Validators and schema nodes read the entry under a key and may rewrite it.
type Container interface {
	Get(key Key) (any, bool)
	Set(key Key, value any) error
	Delete(key Key) error
}

// Object is a Container over a JSON-like object. It shares storage with
// the map it was converted from.
type Object map[string]any

// Get returns the value stored under a field key.
func (o Object) Get(key Key) (any, bool) {
	if key.positional {
		return nil, false
	}
	v, ok := o[key.field]
	return v, ok
}

// Set stores value under a field key.
func (o Object) Set(key Key, value any) error {
	if key.positional {
		return fmt.Errorf("%w: index %s on object", ErrInvalidKey, key)
	}
	o[key.field] = value
	return nil
}

// Delete removes a field.
func (o Object) Delete(key Key) error {
	if key.positional {
		return fmt.Errorf("%w: index %s on object", ErrInvalidKey, key)
	}
	delete(o, key.field)
	return nil
}

// Items is a Container over a JSON-like list. It shares storage with the
// slice it was converted from, so writes are visible to the list's parent.
type Items []any

// Get returns the element at a positional key.
func (it Items) Get(key Key) (any, bool) {
	if !key.positional || key.index < 0 || key.index >= len(it) {
		return nil, false
	}
	return it[key.index], true
}

// Set replaces the element at a positional key.
func (it Items) Set(key Key, value any) error {
	if !key.positional {
		return fmt.Errorf("%w: field %q on list", ErrInvalidKey, key.field)
	}
	if key.index < 0 || key.index >= len(it) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, key.index, len(it))
	}
	it[key.index] = value
	return nil
}

// Delete clears the element at a positional key. The list keeps its length
// so that sibling positions stay stable during a validation walk.
func (it Items) Delete(key Key) error {
	return it.Set(key, nil)
}

// AsContainer converts a decoded JSON/YAML value into a Container. It
// accepts map[string]any, []any and the Container types themselves.
func AsContainer(v any) (Container, bool) {
	switch c := v.(type) {
	case Object:
		return c, true
	case Items:
		return c, true
	case map[string]any:
		return Object(c), true
	case []any:
		return Items(c), true
	}
	return nil, false
}

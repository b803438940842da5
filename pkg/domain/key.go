package domain

import (
	"strconv"
	"strings"
)

// Key addresses one entry of a Container: a field name for objects or a
// position for lists.
type Key struct {
	field      string
	index      int
	positional bool
}

// FieldKey returns a key addressing an object field.
func FieldKey(name string) Key {
	return Key{field: name}
}

// IndexKey returns a key addressing a list position.
func IndexKey(i int) Key {
	return Key{index: i, positional: true}
}

// Positional reports whether the key addresses a list position.
func (k Key) Positional() bool { return k.positional }

// Field returns the field name. It is empty for positional keys.
func (k Key) Field() string { return k.field }

// Index returns the list position. It is zero for field keys.
func (k Key) Index() int { return k.index }

func (k Key) String() string {
	if k.positional {
		return "[" + strconv.Itoa(k.index) + "]"
	}
	return k.field
}

// Path is the sequence of keys leading from the validated document root to
// a nested value.
type Path []Key

// Append returns a new path extended with key. The receiver is not modified.
func (p Path) Append(key Key) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

// String renders the path as "profile.emails[2]".
func (p Path) String() string {
	var b strings.Builder
	for i, k := range p {
		if !k.positional && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(k.String())
	}
	return b.String()
}

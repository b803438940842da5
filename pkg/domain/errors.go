package domain

import "errors"

// ErrInvalidKey is returned when a key kind does not match the container
// (an index on an object, a field name on a list).
var ErrInvalidKey = errors.New("key does not address this container")

// ErrIndexOutOfRange is returned when a positional key is outside of a list.
var ErrIndexOutOfRange = errors.New("index out of range")

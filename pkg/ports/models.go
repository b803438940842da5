package ports

import (
	"context"
	"errors"
)

// ErrModelNotFound is returned by a ModelRegistry when a name is not defined.
var ErrModelNotFound = errors.New("model not found")

// Model is a structured model definition used by model-bound schema nodes.
type Model struct {
	Name        string       `json:"name" yaml:"name" mapstructure:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Directive   string       `json:"format,omitempty" yaml:"format,omitempty" mapstructure:"format"`
	Fields      []ModelField `json:"fields" yaml:"fields" mapstructure:"fields"`
}

// ModelField is one typed field of a Model. Type is a schema tag
// ("string", "integer", "list", ...).
type ModelField struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Type        string `json:"type" yaml:"type" mapstructure:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Directive   string `json:"format,omitempty" yaml:"format,omitempty" mapstructure:"format"`
}

// ModelRegistry resolves model definitions by name.
type ModelRegistry interface {
	// Lookup returns the model registered under name.
	// Returns ErrModelNotFound if it does not exist.
	Lookup(ctx context.Context, name string) (*Model, error)
}

// ModelStore is a ModelRegistry that can be populated and listed.
type ModelStore interface {
	ModelRegistry

	// Save stores or replaces a model under its Name.
	Save(ctx context.Context, model *Model) error

	// List returns the names of all stored models in lexical order.
	List(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for registries that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying definitions change.
	Watch(ctx context.Context) (<-chan struct{}, error)
}

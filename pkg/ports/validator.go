package ports

import (
	"context"

	"github.com/aretw0/rail/pkg/domain"
)

// OnFailPolicy is the raw value of an on-fail-<validator> attribute.
// The engine passes it through to the Catalog untouched; an empty policy
// means the attribute was absent.
type OnFailPolicy string

// Validator is a constructed validator bound to a schema node.
type Validator interface {
	// Name returns the directive name the validator was built from.
	Name() string

	// Validate checks the value stored under key and returns the container,
	// possibly corrected. A failure is reported as an error.
	Validate(ctx context.Context, key domain.Key, value any, c domain.Container) (domain.Container, error)

	// Render returns the directive form of the validator ("length: 1 10").
	// withKeywords selects a human readable form for prompts.
	Render(withKeywords bool) string
}

// Catalog resolves validator names for a data type tag.
type Catalog interface {
	// Applicable returns the validator names usable on nodes with the given tag.
	Applicable(tag string) []string

	// Build constructs a validator from parsed directive arguments.
	Build(name string, args []any, onFail OnFailPolicy) (Validator, error)
}

package rail

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/rail/pkg/domain"
	"github.com/aretw0/rail/pkg/markup"
	"github.com/aretw0/rail/pkg/ports"
	"github.com/aretw0/rail/pkg/schema"
	"github.com/aretw0/rail/pkg/validators"
	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"
)

// Guard is the high-level entry point of the library. It holds one built
// output schema and validates documents against it. A Guard is immutable
// and safe for concurrent use.
type Guard struct {
	schema *schema.Schema
	logger *slog.Logger
	Name   string
}

type options struct {
	logger   *slog.Logger
	catalog  ports.Catalog
	models   ports.ModelRegistry
	registry *schema.Registry
	hooks    schema.Hooks
	strict   bool
	name     string
}

// Option defines a functional option for configuring a Guard.
type Option func(*options)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStrict rejects directive entries that are not valid for their element
// instead of logging a warning.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithCatalog replaces the built-in validator catalog.
func WithCatalog(c ports.Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithModels sets the registry used to resolve model-bound elements.
func WithModels(m ports.ModelRegistry) Option {
	return func(o *options) {
		o.models = m
	}
}

// WithRegistry sets a custom tag registry.
func WithRegistry(r *schema.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks schema.Hooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// WithName labels the Guard in logs. Defaults to the schema file name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.catalog == nil {
		o.catalog = validators.New()
	}
	return o
}

func (o *options) schemaOptions() []schema.Option {
	opts := []schema.Option{
		schema.WithCatalog(o.catalog),
		schema.WithStrict(o.strict),
		schema.WithLogger(o.logger),
		schema.WithHooks(o.hooks),
	}
	if o.models != nil {
		opts = append(opts, schema.WithModels(o.models))
	}
	if o.registry != nil {
		opts = append(opts, schema.WithRegistry(o.registry))
	}
	return opts
}

// New builds a Guard from a parsed document.
func New(ctx context.Context, doc *markup.Element, opts ...Option) (*Guard, error) {
	o := newOptions(opts)
	s, err := schema.Load(ctx, doc, o.schemaOptions()...)
	if err != nil {
		return nil, err
	}

	logger := o.logger
	if o.name != "" {
		logger = logger.With("schema", o.name)
	}
	logger.Debug("schema loaded", "fields", len(s.Root().Children()))

	return &Guard{schema: s, logger: logger, Name: o.name}, nil
}

// Load reads a rail document from r and builds a Guard.
func Load(ctx context.Context, r io.Reader, opts ...Option) (*Guard, error) {
	doc, err := markup.Parse(r)
	if err != nil {
		return nil, err
	}
	return New(ctx, doc, opts...)
}

// LoadFile reads the rail document at path and builds a Guard.
func LoadFile(ctx context.Context, path string, opts ...Option) (*Guard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema: %w", err)
	}
	defer f.Close()

	name := filepath.Base(path)
	opts = append([]Option{WithName(name)}, opts...)
	return Load(ctx, f, opts...)
}

// Lint parses and builds the document in r, reporting every construction
// error at once.
func Lint(ctx context.Context, r io.Reader, opts ...Option) error {
	doc, err := markup.Parse(r)
	if err != nil {
		return err
	}
	o := newOptions(opts)
	return schema.Lint(ctx, doc, o.schemaOptions()...)
}

// Schema returns the built output schema.
func (g *Guard) Schema() *schema.Schema {
	return g.schema
}

// Validate validates a copy of data and returns the corrected document.
// data itself is never modified.
func (g *Guard) Validate(ctx context.Context, data map[string]any) (map[string]any, error) {
	var doc map[string]any
	if err := deepcopy.Copy(&doc, data); err != nil {
		return nil, fmt.Errorf("failed to copy input: %w", err)
	}

	id := domain.CallID(ctx)
	if id == "" {
		id = uuid.NewString()
		ctx = domain.WithCallID(ctx, id)
	}

	start := time.Now()
	out, err := g.schema.Validate(ctx, doc)
	if err != nil {
		g.logger.Debug("validation failed", "call_id", id, "duration", time.Since(start), "error", err)
		return nil, err
	}
	g.logger.Debug("validation succeeded", "call_id", id, "duration", time.Since(start))
	return out, nil
}

// Describe renders the schema as markdown documentation.
func (g *Guard) Describe(withKeywords bool) string {
	return g.schema.Markdown(withKeywords)
}

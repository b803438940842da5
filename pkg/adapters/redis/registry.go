package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/rail/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Registry implements ports.ModelStore using Redis. Models are stored as
// JSON under <prefix><name>; a set under <prefix>index lists the names.
type Registry struct {
	client *backend.Client
	prefix string
}

var _ ports.ModelStore = (*Registry)(nil)

type Option func(*Registry)

// WithPrefix sets the key prefix for models.
func WithPrefix(prefix string) Option {
	return func(r *Registry) {
		r.prefix = prefix
	}
}

// New creates a new Redis registry with options.
func New(address, password string, db int, opts ...Option) *Registry {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis registry from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Registry {
	r := &Registry{
		client: client,
		prefix: "rail:model:",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) key(name string) string {
	return r.prefix + name
}

func (r *Registry) indexKey() string {
	return r.prefix + "index"
}

// Save persists the model to Redis.
func (r *Registry) Save(ctx context.Context, m *ports.Model) error {
	if m == nil || m.Name == "" {
		return errors.New("model name is required")
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(m.Name), data, 0)
	pipe.SAdd(ctx, r.indexKey(), m.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Lookup retrieves the model from Redis.
func (r *Registry) Lookup(ctx context.Context, name string) (*ports.Model, error) {
	val, err := r.client.Get(ctx, r.key(name)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, fmt.Errorf("%w: %s", ports.ErrModelNotFound, name)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var m ports.Model
	if err := json.Unmarshal([]byte(val), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model: %w", err)
	}
	return &m, nil
}

// Delete removes a model.
func (r *Registry) Delete(ctx context.Context, name string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.key(name))
	pipe.SRem(ctx, r.indexKey(), name)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns the indexed model names.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Ping checks the connection.
func (r *Registry) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (r *Registry) Close() error {
	return r.client.Close()
}

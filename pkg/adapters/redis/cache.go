// Package redis provides a ResultCache backed by Redis, so repeated runs
// against the same input (common while iterating on a solution) can reuse
// already-solved cases across processes.
package redis

import (
	"context"
	"errors"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/casegrid/pkg/ports"
)

// Cache implements ports.ResultCache using Redis strings.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ ports.ResultCache = (*Cache)(nil)

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the expiration for cached results. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix for cached results.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a Redis cache with its own client.
func New(address, password string, db int, opts ...Option) *Cache {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	cache := &Cache{
		client: client,
		prefix: "casegrid:result:",
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

// Get implements ports.ResultCache. A missing key is a miss, not an error.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, backend.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set implements ports.ResultCache.
func (c *Cache) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, c.prefix+key, value, c.ttl).Err()
}

// Close releases the underlying client connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

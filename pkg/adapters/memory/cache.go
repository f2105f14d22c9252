// Package memory provides a process-local ResultCache, mainly for tests
// and single-machine use.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/casegrid/pkg/ports"
)

// Cache implements ports.ResultCache with a mutex-guarded map.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

var _ ports.ResultCache = (*Cache)(nil)

// NewCache creates an empty in-memory cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Get implements ports.ResultCache.
func (c *Cache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, found := c.entries[key]
	return value, found, nil
}

// Set implements ports.ResultCache.
func (c *Cache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

// Len reports how many results are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

package memory

import (
	"context"
	"sync"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
)

// Ensure RegistryCache implements the interface.
var _ driven.RegistryCache = (*RegistryCache)(nil)

// RegistryCache is an in-memory implementation of driven.RegistryCache.
type RegistryCache struct {
	mu      sync.RWMutex
	lookups map[string]domain.RegistryLookup
}

// NewRegistryCache creates a new in-memory registry cache.
func NewRegistryCache() *RegistryCache {
	return &RegistryCache{
		lookups: make(map[string]domain.RegistryLookup),
	}
}

func cacheKey(ecosystem, name string) string {
	return ecosystem + "\x00" + name
}

// Get retrieves a cached lookup.
func (c *RegistryCache) Get(_ context.Context, ecosystem, name string) (*domain.RegistryLookup, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lookup, ok := c.lookups[cacheKey(ecosystem, name)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &lookup, nil
}

// Put stores or replaces a lookup.
func (c *RegistryCache) Put(_ context.Context, lookup domain.RegistryLookup) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookups[cacheKey(lookup.Ecosystem, lookup.Name)] = lookup
	return nil
}

// Len returns the number of cached lookups.
func (c *RegistryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lookups)
}

package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
	"github.com/asdzza/RACG-Defense/internal/logger"
)

// Ensure CachedRegistry implements the interface.
var _ driven.PackageRegistry = (*CachedRegistry)(nil)

// DefaultSharedLookupTimeout bounds a lookup shared by concurrent callers.
const DefaultSharedLookupTimeout = 30 * time.Second

// CachedRegistry serves lookups from a RegistryCache and only asks the
// wrapped registry on a miss or an expired entry. Concurrent lookups of the
// same name share one request, which runs detached from any single caller's
// cancellation. Errors are never cached.
type CachedRegistry struct {
	next    driven.PackageRegistry
	cache   driven.RegistryCache
	ttl     time.Duration
	metrics driven.Metrics
	group   singleflight.Group
	now     func() time.Time
	timeout time.Duration
}

// NewCachedRegistry wraps next. A zero ttl keeps entries forever.
func NewCachedRegistry(next driven.PackageRegistry, cache driven.RegistryCache, ttl time.Duration, metrics driven.Metrics) *CachedRegistry {
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	return &CachedRegistry{
		next:    next,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
		now:     time.Now,
		timeout: DefaultSharedLookupTimeout,
	}
}

// Ecosystem returns the wrapped registry's ecosystem.
func (c *CachedRegistry) Ecosystem() string {
	return c.next.Ecosystem()
}

// Exists checks the cache, then the wrapped registry.
func (c *CachedRegistry) Exists(ctx context.Context, name string) (bool, error) {
	eco := c.next.Ecosystem()

	cached, err := c.cache.Get(ctx, eco, name)
	switch {
	case err == nil && !cached.Expired(c.ttl, c.now()):
		c.metrics.ObserveRegistryLookup(eco, driven.LookupCacheHit)
		return cached.Exists, nil
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		logger.Warn("registry cache read failed for %s/%s: %v", eco, name, err)
	}

	ch := c.group.DoChan(eco+"/"+name, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		exists, err := c.next.Exists(shared, name)
		if err != nil {
			return false, err
		}
		lookup := domain.RegistryLookup{
			Ecosystem: eco,
			Name:      name,
			Exists:    exists,
			CheckedAt: c.now(),
		}
		if err := c.cache.Put(shared, lookup); err != nil {
			logger.Warn("registry cache write failed for %s/%s: %v", eco, name, err)
		}
		return exists, nil
	})

	select {
	case <-ctx.Done():
		return false, fmt.Errorf("lookup %s/%s: %w", eco, name, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return false, fmt.Errorf("lookup %s/%s: %w", eco, name, res.Err)
		}
		return res.Val.(bool), nil
	}
}

// WrapAll decorates every registry with the same cache.
func WrapAll(registries []driven.PackageRegistry, cache driven.RegistryCache, ttl time.Duration, metrics driven.Metrics) []driven.PackageRegistry {
	wrapped := make([]driven.PackageRegistry, len(registries))
	for i, r := range registries {
		wrapped[i] = NewCachedRegistry(r, cache, ttl, metrics)
	}
	return wrapped
}

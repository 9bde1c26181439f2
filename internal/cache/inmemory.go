package cache

import (
	"context"
	"strings"
	"time"

	goCache "github.com/patrickmn/go-cache"

	"github.com/ledgerbook/ledgerbook/internal/config"
	"github.com/ledgerbook/ledgerbook/internal/types"
)

// InMemoryCache implements the Cache interface using github.com/patrickmn/go-cache
// as the backing store. Expiry is judged against an injected clock rather
// than go-cache's own janitor so tests can advance time deterministically;
// entries past their deadline are dropped lazily on the next Get, or in bulk
// by Flush.
type InMemoryCache struct {
	cache *goCache.Cache
	cfg   *config.Configuration
	clock types.Clock
}

// entry wraps a cached value with the deadline it was stored against.
// A zero deadline means the entry never expires.
type entry struct {
	value     interface{}
	expiresAt time.Time
}

// NewInMemoryCache creates a cache instance. Callers construct and inject
// their own instance; there is no process-wide singleton, so tests can run
// isolated caches side by side.
func NewInMemoryCache(cfg *config.Configuration, clock types.Clock) *InMemoryCache {
	if clock == nil {
		clock = types.RealClock()
	}
	return &InMemoryCache{
		cache: goCache.New(goCache.NoExpiration, 0),
		cfg:   cfg,
		clock: clock,
	}
}

// Get retrieves a value from the cache
func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	if !c.cfg.Cache.Enabled {
		return nil, false
	}

	raw, found := c.cache.Get(key)
	if !found {
		return nil, false
	}

	e := raw.(entry)
	if !e.expiresAt.IsZero() && !c.clock.Now().Before(e.expiresAt) {
		// expired entries never transition back to valid
		c.cache.Delete(key)
		return nil, false
	}

	return e.value, true
}

// Set adds a value to the cache with the specified expiration
func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) {
	if !c.cfg.Cache.Enabled {
		return
	}

	e := entry{value: value}
	if expiration > 0 {
		e.expiresAt = c.clock.Now().Add(expiration)
	}
	c.cache.Set(key, e, goCache.NoExpiration)
}

// Delete removes a key from the cache
func (c *InMemoryCache) Delete(_ context.Context, key string) {
	if !c.cfg.Cache.Enabled {
		return
	}
	c.cache.Delete(key)
}

// DeleteByPrefix removes all keys with the given prefix
func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	if !c.cfg.Cache.Enabled {
		return
	}

	for k := range c.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Delete(k)
		}
	}
}

// Flush removes all items from the cache
func (c *InMemoryCache) Flush(_ context.Context) {
	if !c.cfg.Cache.Enabled {
		return
	}
	c.cache.Flush()
}

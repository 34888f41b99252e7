package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/repository"
	"welfare-cms/internal/shared/logger"
)

const cacheKeyPrefix = "welfare:content:"

// CacheKey is the cache key of a domain's resolved read response.
func CacheKey(domain model.Domain) string {
	return cacheKeyPrefix + string(domain)
}

// readCache wraps an optional ContentCache. Failures are logged and treated as misses.
type readCache struct {
	cache  repository.ContentCache
	ttl    time.Duration
	logger logger.Logger
}

func newReadCache(cache repository.ContentCache, ttl time.Duration, log logger.Logger) *readCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &readCache{cache: cache, ttl: ttl, logger: log}
}

func (c *readCache) load(ctx context.Context, domain model.Domain, dst interface{}) bool {
	if c.cache == nil {
		return false
	}
	raw, err := c.cache.Get(ctx, CacheKey(domain))
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			c.logger.WithFields(map[string]interface{}{"domain": domain, "error": err.Error()}).Warn("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.WithFields(map[string]interface{}{"domain": domain, "error": err.Error()}).Warn("Discarding undecodable cache entry")
		return false
	}
	return true
}

func (c *readCache) store(ctx context.Context, domain model.Domain, value interface{}) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, CacheKey(domain), raw, c.ttl); err != nil {
		c.logger.WithFields(map[string]interface{}{"domain": domain, "error": err.Error()}).Warn("Cache write failed")
	}
}

func (c *readCache) invalidate(ctx context.Context, domains ...model.Domain) {
	if c.cache == nil || len(domains) == 0 {
		return
	}
	keys := make([]string, len(domains))
	for i, d := range domains {
		keys[i] = CacheKey(d)
	}
	if err := c.cache.Delete(ctx, keys...); err != nil {
		c.logger.WithFields(map[string]interface{}{"keys": keys, "error": err.Error()}).Warn("Cache invalidation failed")
	}
}

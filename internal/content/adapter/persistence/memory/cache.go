package memory

import (
	"context"
	"sync"
	"time"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/repository"

	"github.com/oklog/ulid/v2"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is a TTL map used in tests and single-process deployments without Redis.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry), now: time.Now}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, repository.ErrCacheMiss
	}
	return append([]byte(nil), e.value...), nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{value: append([]byte(nil), value...), expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *Cache) Ping(ctx context.Context) error { return nil }

// ChangeLog is a bounded ring of change entries, newest last.
type ChangeLog struct {
	mu      sync.RWMutex
	entries []model.ChangeEntry
	max     int
}

// NewChangeLog keeps at most max entries
func NewChangeLog(max int) *ChangeLog {
	if max <= 0 {
		max = 1000
	}
	return &ChangeLog{max: max}
}

func (l *ChangeLog) Append(ctx context.Context, entry *model.ChangeEntry) error {
	if entry.ID == "" {
		entry.ID = ulid.Make().String()
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, *entry)
	if over := len(l.entries) - l.max; over > 0 {
		l.entries = append([]model.ChangeEntry(nil), l.entries[over:]...)
	}
	return nil
}

func (l *ChangeLog) Recent(ctx context.Context, limit int) ([]model.ChangeEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.ChangeEntry, 0, limit)
	for i := len(l.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.entries[i])
	}
	return out, nil
}

package repository

import (
	"context"
	"time"

	"welfare-cms/internal/content/domain/model"
)

// ContentCache holds serialised read responses. Get returns ErrCacheMiss for absent keys.
type ContentCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// ChangeLog keeps a bounded history of content mutations for the admin dashboard.
type ChangeLog interface {
	Append(ctx context.Context, entry *model.ChangeEntry) error
	Recent(ctx context.Context, limit int) ([]model.ChangeEntry, error)
}

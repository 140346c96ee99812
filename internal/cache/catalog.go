// Package cache holds the redis-backed catalog cache for public reads.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/novelistan/novelistan-api/internal/domain"
)

const catalogKey = "catalog:all_books"

// Catalog caches the public book listing. Every operation degrades to a
// cache miss on redis failure; the database stays the source of truth.
type Catalog struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalog constructs the cache.
func NewCatalog(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Catalog {
	return &Catalog{client: client, ttl: ttl, logger: logger}
}

// GetAll returns the cached listing and whether it was present.
func (c *Catalog) GetAll(ctx context.Context) ([]domain.Book, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("catalog cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var books []domain.Book
	if err := json.Unmarshal(raw, &books); err != nil {
		c.logger.Warn("catalog cache entry corrupted, dropping", zap.Error(err))
		_ = c.client.Del(ctx, catalogKey).Err()
		return nil, false
	}
	return books, true
}

// SetAll stores the listing with the configured TTL.
func (c *Catalog) SetAll(ctx context.Context, books []domain.Book) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(books)
	if err != nil {
		c.logger.Warn("catalog cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, catalogKey, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("catalog cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached listing. Called on every book mutation so a
// deleted or updated book is never served stale.
func (c *Catalog) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		c.logger.Debug("catalog cache invalidation failed", zap.Error(err))
	}
}

package reference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zookeepr/backend/internal/models"
)

// Cache is a read-through Redis cache in front of a Store. Reference rows
// only change when seeding, so whole tables are cached and single lookups
// are answered from the cached list.
type Cache struct {
	store  Store
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache wraps store with a Redis cache. A zero ttl keeps entries until invalidated.
func NewCache(store Store, client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: store, client: client, ttl: ttl, logger: logger}
}

// CacheKey returns the Redis key holding the rows of table.
func CacheKey(table Table) string {
	return "ref:" + string(table) + ":all"
}

// FindAll returns every row of table ordered by name.
func (c *Cache) FindAll(ctx context.Context, table Table) ([]models.ReferenceItem, error) {
	if !table.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	if !table.Cacheable() {
		return c.store.FindAll(ctx, table)
	}
	key := CacheKey(table)
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var items []models.ReferenceItem
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
		c.logger.Warn("discarding corrupt reference cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		// Redis is an optimisation only; fall back to the database.
		c.logger.Warn("reference cache read failed", zap.String("key", key), zap.Error(err))
	}

	items, err := c.store.FindAll(ctx, table)
	if err != nil {
		return nil, err
	}
	if body, err := json.Marshal(items); err == nil {
		if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
			c.logger.Warn("reference cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return items, nil
}

// FindByID returns the row with the given id, or nil.
func (c *Cache) FindByID(ctx context.Context, table Table, id int) (*models.ReferenceItem, error) {
	items, err := c.FindAll(ctx, table)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

// FindByName returns the row with the given name, or nil.
func (c *Cache) FindByName(ctx context.Context, table Table, name string) (*models.ReferenceItem, error) {
	items, err := c.FindAll(ctx, table)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Name == name {
			return &items[i], nil
		}
	}
	return nil, nil
}

// Invalidate drops the cached rows of the given tables, or of all tables when none are given.
func (c *Cache) Invalidate(ctx context.Context, tables ...Table) error {
	if len(tables) == 0 {
		tables = Tables
	}
	keys := make([]string, 0, len(tables))
	for _, t := range tables {
		if t.Cacheable() {
			keys = append(keys, CacheKey(t))
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate reference cache: %w", err)
	}
	return nil
}

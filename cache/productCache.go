// Package cache provides the Redis read-through cache for catalog reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Kariqs/silkstitch-api/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProductKeyPrefix = "product:detail:"
	ListKeyPrefix    = "products:v:"
	VersionKey       = "products:version"

	DefaultTTL = 10 * time.Minute
)

// ProductCache stores product details and product lists under a version
// number. Bumping the version invalidates every cached entry at once.
type ProductCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProductCache{redis: client, ttl: ttl}
}

func productKey(version int64, id uint) string {
	return fmt.Sprintf("%s%d:%s", ProductKeyPrefix, version, strconv.FormatUint(uint64(id), 10))
}

func listKey(version int64, key string) string {
	return fmt.Sprintf("%s%d:%s", ListKeyPrefix, version, key)
}

// GetProduct looks up a product detail. It returns the cache version it read
// under; pass that version to SetProduct after loading from the database so
// a fill that raced with a write lands under a retired version. A version of
// 0 means the cache is unusable and the fill is skipped.
func (c *ProductCache) GetProduct(ctx context.Context, id uint, dst any) (int64, bool) {
	version, err := c.version(ctx)
	if err != nil {
		return 0, false
	}
	return version, c.get(ctx, productKey(version, id), dst)
}

func (c *ProductCache) SetProduct(ctx context.Context, version int64, id uint, value any) {
	if version < 1 {
		return
	}
	c.set(ctx, productKey(version, id), value)
}

// GetList looks up a cached list page. The returned version follows the same
// rule as GetProduct.
func (c *ProductCache) GetList(ctx context.Context, key string, dst any) (int64, bool) {
	version, err := c.version(ctx)
	if err != nil {
		return 0, false
	}
	return version, c.get(ctx, listKey(version, key), dst)
}

func (c *ProductCache) SetList(ctx context.Context, version int64, key string, value any) {
	if version < 1 {
		return
	}
	c.set(ctx, listKey(version, key), value)
}

// Invalidate retires every cached detail and list by bumping the version and
// drops the detail for id under the previous version.
func (c *ProductCache) Invalidate(ctx context.Context, id uint) {
	if c == nil {
		return
	}
	newVersion, err := c.redis.Incr(ctx, VersionKey).Result()
	if err != nil {
		logger.Error(ctx, "failed to bump product cache version", err, zap.Uint("product_id", id))
		return
	}
	logger.Info(ctx, "product cache invalidated", zap.Int64("new_version", newVersion))
	if err := c.redis.Del(ctx, productKey(newVersion-1, id)).Err(); err != nil {
		logger.Warn(ctx, "failed to delete cached product", zap.Uint("product_id", id), zap.Error(err))
	}
}

func (c *ProductCache) version(ctx context.Context) (int64, error) {
	if c == nil {
		return 0, errors.New("cache disabled")
	}
	ver, err := c.redis.Get(ctx, VersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		// Concurrent first readers must agree on the starting version.
		if err := c.redis.SetNX(ctx, VersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.redis.Get(ctx, VersionKey).Int64()
	}
	return ver, err
}

func (c *ProductCache) get(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx, "product cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn(ctx, "failed to unmarshal cached value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *ProductCache) set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn(ctx, "failed to marshal value for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "failed to cache value", zap.String("key", key), zap.Error(err))
	}
}

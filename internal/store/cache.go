// internal/store/cache.go
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront-insights/internal/common/logger"
	"storefront-insights/internal/models"
)

const cacheKeyPrefix = "insights:result:"

// CachedClient is a read-through cache over an Executor. Cache failures
// degrade to the inner executor; they never fail the request.
type CachedClient struct {
	inner  Executor
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewCachedClient wraps inner with a Redis result cache.
func NewCachedClient(inner Executor, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedClient {
	return &CachedClient{
		inner:  inner,
		redis:  rdb,
		ttl:    ttl,
		logger: log.With(map[string]interface{}{"component": "store-cache"}),
	}
}

func (c *CachedClient) Execute(ctx context.Context, query string, intent models.Intent) (models.StoreResult, error) {
	key := cacheKey(intent)

	cached, err := c.redis.Get(ctx, key).Result()
	if err == nil {
		var result models.StoreResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			c.logger.Debug("cache hit", map[string]interface{}{"key": key})
			return result, nil
		}
		// Unreadable entry, fall through and overwrite.
	} else if err != redis.Nil {
		c.logger.Warn("cache read failed", map[string]interface{}{"error": err.Error()})
	}

	result, err := c.inner.Execute(ctx, query, intent)
	if err != nil {
		return models.StoreResult{}, err
	}

	if payload, err := json.Marshal(result); err == nil {
		if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}

	return result, nil
}

// cacheKey is deterministic over the intent fields that change the result.
// The query text is excluded: it is derived from the same fields.
func cacheKey(intent models.Intent) string {
	raw := fmt.Sprintf("%s|%s|%d:%s:%t:%t|%s",
		intent.Category,
		strings.Join(intent.Metrics, ","),
		intent.TimePeriod.Value,
		intent.TimePeriod.Unit,
		intent.TimePeriod.Future,
		intent.TimePeriod.Present,
		strings.Join(intent.Entities, ","),
	)
	sum := sha256.Sum256([]byte(raw))
	return cacheKeyPrefix + hex.EncodeToString(sum[:16])
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Stats tracks cache performance counters.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
}

// MarketCache is a short-TTL JSON cache for upstream market-data payloads.
// A nil Redis client turns every lookup into a miss and every store into a
// no-op, so callers never need to know whether caching is enabled.
type MarketCache struct {
	redis  *redis.Client
	ttl    time.Duration
	prefix string
	logger *logrus.Logger

	mu    sync.Mutex
	stats Stats
}

// NewMarketCache creates a new Redis-backed market-data cache.
func NewMarketCache(redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *MarketCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &MarketCache{
		redis:  redisClient,
		ttl:    ttl,
		prefix: "market_cache:",
		logger: logger,
	}
}

// Enabled reports whether a Redis client is attached.
func (c *MarketCache) Enabled() bool {
	return c != nil && c.redis != nil
}

// Get retrieves a cached payload into dest. The boolean reports a hit.
func (c *MarketCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.Enabled() {
		return false
	}

	data, err := c.redis.Get(ctx, c.prefix+key).Result()
	if err == redis.Nil {
		c.recordMiss()
		return false
	}
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Redis error reading cache")
		c.recordMiss()
		return false
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Error deserializing cached payload")
		c.recordMiss()
		return false
	}

	c.recordHit()
	return true
}

// Set stores a payload under the cache TTL. Failures are logged, never
// propagated: a broken cache must not break the request.
func (c *MarketCache) Set(ctx context.Context, key string, value interface{}) {
	if !c.Enabled() {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Error serializing payload for cache")
		return
	}

	if err := c.redis.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Redis error writing cache")
		return
	}

	c.mu.Lock()
	c.stats.Sets++
	c.mu.Unlock()
}

// GetStats returns a snapshot of the cache counters.
func (c *MarketCache) GetStats() Stats {
	if c == nil {
		return Stats{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// HealthCheck pings the underlying Redis connection.
func (c *MarketCache) HealthCheck(ctx context.Context) error {
	if !c.Enabled() {
		return errors.New("cache disabled")
	}
	return c.redis.Ping(ctx).Err()
}

func (c *MarketCache) recordHit() {
	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
}

func (c *MarketCache) recordMiss() {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
}

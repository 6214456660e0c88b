package fitstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/2beens/fitlog/internal/telemetry/metrics"

	"github.com/go-redis/redis/v8"
)

const documentKeyPrefix = "fitlog-doc||"

var ErrCacheMiss = errors.New("document not cached")

// DocumentCache keeps recently saved documents in redis. Only writes fill it.
type DocumentCache struct {
	redisClient    *redis.Client
	ttl            time.Duration
	metricsManager *metrics.Manager
}

func NewDocumentCache(redisClient *redis.Client, ttl time.Duration, metricsManager *metrics.Manager) *DocumentCache {
	return &DocumentCache{
		redisClient:    redisClient,
		ttl:            ttl,
		metricsManager: metricsManager,
	}
}

func documentKey(userID int) string {
	return documentKeyPrefix + strconv.Itoa(userID)
}

func (c *DocumentCache) Get(ctx context.Context, userID int) ([]byte, error) {
	data, err := c.redisClient.Get(ctx, documentKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.metricsManager.CounterDocumentCache.WithLabelValues("miss").Inc()
			return nil, ErrCacheMiss
		}
		c.metricsManager.CounterDocumentCache.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metricsManager.CounterDocumentCache.WithLabelValues("hit").Inc()
	return data, nil
}

func (c *DocumentCache) Set(ctx context.Context, userID int, data []byte) error {
	return c.redisClient.Set(ctx, documentKey(userID), data, c.ttl).Err()
}

func (c *DocumentCache) Invalidate(ctx context.Context, userID int) error {
	return c.redisClient.Del(ctx, documentKey(userID)).Err()
}

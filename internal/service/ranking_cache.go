package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"marcha-api/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// RedisCupRankingKey holds the serialized house ranking
	RedisCupRankingKey = "cup:ranking:houses"

	// Timeout for individual Redis operations
	redisCacheTimeout = 2 * time.Second
)

// RankingCache keeps the house cup ranking between score changes.
// Cache failures are logged and treated as misses; the database stays
// the source of truth.
type RankingCache interface {
	Get(ctx context.Context) ([]entity.HouseTotal, bool)
	Set(ctx context.Context, ranking []entity.HouseTotal)
	Invalidate(ctx context.Context)
}

type redisRankingCache struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewRedisRankingCache(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) RankingCache {
	return &redisRankingCache{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

func (c *redisRankingCache) Get(ctx context.Context) ([]entity.HouseTotal, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	raw, err := c.redisClient.Get(ctx, RedisCupRankingKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("Failed to read cup ranking from Redis: %+v", err)
		}
		return nil, false
	}

	var ranking []entity.HouseTotal
	if err := json.Unmarshal(raw, &ranking); err != nil {
		c.log.Warnf("Discarding malformed cup ranking cache: %+v", err)
		return nil, false
	}
	return ranking, true
}

func (c *redisRankingCache) Set(ctx context.Context, ranking []entity.HouseTotal) {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	raw, err := json.Marshal(ranking)
	if err != nil {
		c.log.Warnf("Failed to encode cup ranking: %+v", err)
		return
	}

	if err := c.redisClient.Set(ctx, RedisCupRankingKey, raw, c.ttl).Err(); err != nil {
		c.log.Warnf("Failed to store cup ranking in Redis: %+v", err)
		return
	}
	c.log.Debugf("Cached cup ranking for %v", c.ttl)
}

func (c *redisRankingCache) Invalidate(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	if err := c.redisClient.Del(ctx, RedisCupRankingKey).Err(); err != nil {
		c.log.Warnf("Failed to invalidate cup ranking: %+v", err)
	}
}

// noopRankingCache is used when no Redis client is configured, and in tests
type noopRankingCache struct{}

func NewNoopRankingCache() RankingCache {
	return noopRankingCache{}
}

func (noopRankingCache) Get(context.Context) ([]entity.HouseTotal, bool) { return nil, false }
func (noopRankingCache) Set(context.Context, []entity.HouseTotal) {}
func (noopRankingCache) Invalidate(context.Context) {}


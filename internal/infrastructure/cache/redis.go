package cache

import (
	"context"
	"fmt"
	"time"

	"marcha-api/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const redisConnectTimeout = 5 * time.Second

// NewRedisClient connects to the cache holding the cup ranking and the access token allowlist
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  redisConnectTimeout,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s:%s: %w", cfg.Host, cfg.Port, err)
	}

	logrus.WithField("db", cfg.DB).Info("Successfully connected to Redis")

	return client, nil
}

package cache

import (
	"context"
	"encoding/json"
	"time"

	"interviewhub/core/config"
	"interviewhub/core/constants"
	"interviewhub/core/logger"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	IncrementLoginAttempt(ctx context.Context, identifier string) (int64, error)
	ResetLoginAttempts(ctx context.Context, identifier string) error
	Publish(ctx context.Context, channel string, payload any) error
	Client() *redis.Client
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to redis", "error", err, "addr", cfg.Addr)
		return nil, err
	}

	logger.Info("Redis initialized successfully", "addr", cfg.Addr)
	return &redisCache{client: client}, nil
}

func (c *redisCache) AddToTokenBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	return c.client.Set(ctx, constants.RedisKeyTokenBlacklist+token, "1", ttl).Err()
}

func (c *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, constants.RedisKeyTokenBlacklist+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) IncrementLoginAttempt(ctx context.Context, identifier string) (int64, error) {
	key := constants.RedisKeyLoginAttempts + identifier
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		c.client.Expire(ctx, key, constants.LoginAttemptWindow)
	}
	return count, nil
}

func (c *redisCache) ResetLoginAttempts(ctx context.Context, identifier string) error {
	return c.client.Del(ctx, constants.RedisKeyLoginAttempts+identifier).Err()
}

// Publish sends a JSON payload over a pub/sub channel. Delivery is
// best-effort; subscribers that are offline simply miss the message.
func (c *redisCache) Publish(ctx context.Context, channel string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, channel, data).Err()
}

func (c *redisCache) Client() *redis.Client {
	return c.client
}

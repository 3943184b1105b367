package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/workforce-client/internal/config"
)

const redisKeyPrefix = "workforce:client:"

// RedisKV persists client state in Redis. It exists for headless agents
// that share one session across processes or hosts.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV connects to Redis using the provided configuration.
func NewRedisKV(cfg config.RedisConfig, logger *zap.Logger) *RedisKV {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &RedisKV{client: client}
}

// NewRedisKVFromClient wraps an existing client; used by tests.
func NewRedisKVFromClient(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

// Get returns the value for key or ErrNotFound.
func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return val, nil
}

// Set writes the value for key. Values are kept without expiry; credential
// lifetime is governed by the backend, not the store.
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err()
}

// Delete removes the key.
func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, redisKeyPrefix+key).Err()
}

// Close closes the underlying client.
func (r *RedisKV) Close() error {
	return r.client.Close()
}

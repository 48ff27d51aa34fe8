package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type RedisClient[T any] struct {
	client     *redis.Client
	logger     zerolog.Logger
	expiration time.Duration
}

func NewRedisClient[T any](
	client *redis.Client,
	logger zerolog.Logger,
	expiration time.Duration,
) *RedisClient[T] {
	logger = logger.With().Str("component", "RedisClient").Logger()
	return &RedisClient[T]{client: client, logger: logger, expiration: expiration}
}

func (c *RedisClient[T]) Set(
	ctx context.Context,
	key string,
	value T,
) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("setting cache entry")
	return c.client.Set(ctx, key, data, c.expiration).Err()
}

//nolint:ireturn
func (c *RedisClient[T]) Get(ctx context.Context, key string) (T, error) {
	var zero T
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return zero, err
	}

	result := new(T)
	if err := json.Unmarshal(data, result); err != nil {
		return zero, err
	}
	return *result, nil
}

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

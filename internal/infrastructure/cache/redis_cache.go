package cache

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// generationKey holds a counter bumped on every report-affecting write.
// Cached entries embed the generation in their key, so a bump orphans
// every older entry at once; Redis TTLs reclaim them.
const generationKey = "report:generation"

// RedisReportCache caches serialized reports in Redis.
type RedisReportCache struct {
	client *redis.Client
}

// NewRedisReportCache connects to Redis and verifies connectivity.
func NewRedisReportCache(ctx context.Context, addr, password string, db int) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisReportCache{client: client}, nil
}

// Close releases the Redis connection.
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

func (c *RedisReportCache) generation(ctx context.Context) (string, error) {
	gen, err := c.client.Get(ctx, generationKey).Result()
	if err == redis.Nil {
		return "0", nil
	}
	if err != nil {
		return "", err
	}
	return gen, nil
}

func (c *RedisReportCache) versionedKey(ctx context.Context, key string) (string, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:g%s", key, gen), nil
}

// Get returns the cached payload for key at the current generation.
func (c *RedisReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	vk, err := c.versionedKey(ctx, key)
	if err != nil {
		return nil, false, err
	}
	payload, err := c.client.Get(ctx, vk).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// Set stores the payload under the current generation.
func (c *RedisReportCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	vk, err := c.versionedKey(ctx, key)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, vk, payload, ttl).Err()
}

// Invalidate bumps the generation counter, orphaning all cached reports.
func (c *RedisReportCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, generationKey).Err()
}

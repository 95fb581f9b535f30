package cache

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "directions:"

// RedisDirectionsCache stores directions results as JSON strings with a TTL.
type RedisDirectionsCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisDirectionsCache(client *redis.Client, ttl time.Duration) *RedisDirectionsCache {
	return &RedisDirectionsCache{Client: client, TTL: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return client, nil
}

func (c *RedisDirectionsCache) Get(
	ctx context.Context,
	key string,
) (_ ports.DirectionsResult, _ bool, err error) {
	defer obs.Time(ctx, "directions.cache.redis.Get")(&err)

	if c.Client == nil {
		return ports.DirectionsResult{}, false, errors.New("directions cache: redis client is nil")
	}

	b, err := c.Client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.DirectionsResult{}, false, nil
		}
		return ports.DirectionsResult{}, false, fmt.Errorf("get directions cache: redis get: %w", err)
	}

	result, err := decodeResult(b)
	if err != nil {
		return ports.DirectionsResult{}, false, fmt.Errorf("get directions cache: %w", err)
	}

	return result, true, nil
}

func (c *RedisDirectionsCache) Put(
	ctx context.Context,
	key string,
	result ports.DirectionsResult,
) error {
	if c.Client == nil {
		return errors.New("directions cache: redis client is nil")
	}

	payload, err := encodeResult(result)
	if err != nil {
		return fmt.Errorf("insert directions cache: %w", err)
	}

	if err := c.Client.Set(ctx, redisKeyPrefix+key, payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("insert directions cache key=%q: %w", key, err)
	}

	return nil
}

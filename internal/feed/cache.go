package feed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 6 * time.Hour

// Cache guarda o corpo bruto de feeds baixados, por URL.
type Cache interface {
	Get(ctx context.Context, url string) ([]byte, bool, error)
	Set(ctx context.Context, url string, body []byte) error
}

// RedisCache implementa Cache com expiração por TTL.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func CacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "feed:" + hex.EncodeToString(sum[:])
}

func (c *RedisCache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	b, err := c.Client.Get(ctx, CacheKey(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisCache) Set(ctx context.Context, url string, body []byte) error {
	ttl := c.TTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return c.Client.Set(ctx, CacheKey(url), body, ttl).Err()
}

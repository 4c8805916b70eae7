package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/infra"

	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client    redis.Cmdable
	namespace string
}

var _ infra.Cache = (*redisCache)(nil)

// NewCache returns a cache whose keys are prefixed with namespace.
func NewCache(client redis.Cmdable, namespace string) infra.Cache {
	return &redisCache{client: client, namespace: namespace}
}

func (c *redisCache) key(k string) string {
	return fmt.Sprintf("%s:%s", c.namespace, k)
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *redisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.client.Del(ctx, full...).Err()
}

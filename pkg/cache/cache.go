// Package cache is a small JSON read-through cache on top of go-redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	rdb    redis.UniversalClient
	prefix string
}

func New(rdb redis.UniversalClient, prefix string) *Cache {
	return &Cache{rdb: rdb, prefix: prefix}
}

func (c *Cache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Get decodes the value stored under k into dst. It reports false on a miss.
func (c *Cache) Get(ctx context.Context, k string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(k)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get %s: %w", k, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", k, err)
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, k string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", k, err)
	}
	if err := c.rdb.Set(ctx, c.key(k), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", k, err)
	}
	return nil
}

// GetOrLoad returns the cached value for k, calling load and storing its
// result on a miss. Cache errors fall through to load.
func GetOrLoad[T any](ctx context.Context, c *Cache, k string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var out T
	if hit, err := c.Get(ctx, k, &out); err == nil && hit {
		return out, nil
	}

	out, err := load(ctx)
	if err != nil {
		return out, err
	}
	_ = c.Set(ctx, k, out, ttl)
	return out, nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.rdb.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// DeletePrefix removes every key starting with p using SCAN, so it never
// blocks redis the way KEYS would.
func (c *Cache) DeletePrefix(ctx context.Context, p string) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	match := c.key(p) + "*"
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, match, 200).Result()
		if err != nil {
			return removed, fmt.Errorf("cache scan %s: %w", p, err)
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("cache delete %s: %w", p, err)
			}
			removed += int(n)
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

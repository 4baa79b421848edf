// Package redis builds the shared go-redis client. The day-snapshot cache,
// the session check and the rate limiter all talk to this one instance.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/klinik_backend/config"
)

const (
	defaultPoolSize     = 10
	defaultMinIdleConns = 2
	defaultDialTimeout  = 5 * time.Second
	defaultIOTimeout    = 3 * time.Second
)

// Options maps the redis config section onto go-redis options, filling
// unset pool sizes and timeouts with defaults.
func Options(c config.RedisConfig) *goredis.Options {
	return &goredis.Options{
		Addr:         c.Addr,
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     orDefault(c.PoolSize, defaultPoolSize),
		MinIdleConns: orDefault(c.MinIdleConns, defaultMinIdleConns),
		DialTimeout:  seconds(c.DialTimeoutSeconds, defaultDialTimeout),
		ReadTimeout:  seconds(c.ReadTimeoutSeconds, defaultIOTimeout),
		WriteTimeout: seconds(c.WriteTimeoutSeconds, defaultIOTimeout),
	}
}

// NewRedisFromCentral connects and pings.
func NewRedisFromCentral(c config.RedisConfig) (*goredis.Client, error) {
	if c.Addr == "" {
		return nil, errors.New("redis addr is empty")
	}
	opts := Options(c)
	rdb := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", c.Addr, err)
	}
	return rdb, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func seconds(v int, def time.Duration) time.Duration {
	if v > 0 {
		return time.Duration(v) * time.Second
	}
	return def
}

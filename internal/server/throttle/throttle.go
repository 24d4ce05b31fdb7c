// Package throttle limits failed sign-in attempts per identifier using
// counters kept in Redis.
package throttle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "auth:login:fail:"

// counter is the storage the Limiter needs: a value that can be read,
// incremented with an expiry, and removed.
type counter interface {
	get(ctx context.Context, key string) (int64, error)
	incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	del(ctx context.Context, key string) error
}

// Limiter blocks an identifier once it has Limit failures inside Window.
// The window starts at the first failure.
type Limiter struct {
	store  counter
	limit  int64
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{store: &redisCounter{client: client}, limit: int64(limit), window: window}
}

// Allow reports whether another attempt for key may proceed.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}
	n, err := l.store.get(ctx, keyPrefix+key)
	if err != nil {
		return true, fmt.Errorf("throttle get: %w", err)
	}
	return n < l.limit, nil
}

// Fail records a failed attempt for key.
func (l *Limiter) Fail(ctx context.Context, key string) error {
	if _, err := l.store.incr(ctx, keyPrefix+key, l.window); err != nil {
		return fmt.Errorf("throttle incr: %w", err)
	}
	return nil
}

// Reset forgets the failures of key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.store.del(ctx, keyPrefix+key); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

type redisCounter struct {
	client *redis.Client
}

func (c *redisCounter) get(ctx context.Context, key string) (int64, error) {
	n, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

func (c *redisCounter) incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.ExpireNX(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (c *redisCounter) del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Connect builds a Redis client from a redis:// URL or a host:port address.
func Connect(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// Nop never blocks.
type Nop struct{}

func (Nop) Allow(context.Context, string) (bool, error) { return true, nil }
func (Nop) Fail(context.Context, string) error          { return nil }
func (Nop) Reset(context.Context, string) error         { return nil }

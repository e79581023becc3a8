package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares one quota between every process using the same Redis and key,
// e.g. the API server and a standalone monitor hitting the same quote provider.
type RedisLimiter struct {
	limiter *redis_rate.Limiter
	key     string
	limit   redis_rate.Limit
}

// NewRedisLimiter allows perMinute calls per minute under key.
func NewRedisLimiter(rdb *redis.Client, key string, perMinute int) *RedisLimiter {
	return &RedisLimiter{
		limiter: redis_rate.NewLimiter(rdb),
		key:     key,
		limit:   redis_rate.PerMinute(perMinute),
	}
}

// Wait blocks until Redis grants one call.
func (l *RedisLimiter) Wait(ctx context.Context) error {
	for {
		res, err := l.limiter.Allow(ctx, l.key, l.limit)
		if err != nil {
			return fmt.Errorf("redis rate limit: %w", err)
		}
		if res.Allowed > 0 {
			return nil
		}
		wait := res.RetryAfter
		if wait <= 0 {
			wait = 100 * time.Millisecond
		}
		slog.Debug("shared rate limit reached, waiting", "key", l.key, "retry_after", wait)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

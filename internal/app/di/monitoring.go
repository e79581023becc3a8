package di

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_alert_backend/internal/feature/monitoring/usecase"
	"stock_alert_backend/internal/platform/cache"
	"stock_alert_backend/internal/shared/ratelimiter"
)

const (
	EnvKeyQuoteRateLimit = "QUOTE_RATE_LIMIT_PER_MINUTE"

	defaultQuoteRateLimit = 75
	quoteLimiterKey       = "quotes"
)

// QuoteRateLimitFromEnv returns QUOTE_RATE_LIMIT_PER_MINUTE. 0 disables limiting.
func QuoteRateLimitFromEnv() int {
	raw := os.Getenv(EnvKeyQuoteRateLimit)
	if raw == "" {
		return defaultQuoteRateLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		slog.Warn("invalid quote rate limit, using default", "value", raw, "default", defaultQuoteRateLimit)
		return defaultQuoteRateLimit
	}
	return n
}

// NewLimiter creates the quote rate limiter.
// If Redis is available, the quota is shared through Redis.
// Otherwise, it falls back to an in-process limiter.
func NewLimiter(rdb *redis.Client, perMinute int) ratelimiter.Limiter {
	if rdb != nil && perMinute > 0 {
		return ratelimiter.NewRedisLimiter(rdb, quoteLimiterKey, perMinute)
	}
	return ratelimiter.NewRateLimiter(perMinute, time.Minute)
}

// NewDeduplicator creates the dedup store backing the alert dedup window.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to an in-process store.
func NewDeduplicator(rdb *redis.Client) usecase.Deduplicator {
	if rdb != nil {
		return cache.NewRedisDedupStore(rdb, "dedup")
	}
	return cache.NewMemoryDedupStore()
}

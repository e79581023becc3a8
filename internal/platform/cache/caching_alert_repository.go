// Package cache provides Redis-backed decorators and stores.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_alert_backend/internal/feature/alerts/domain/entity"
	"stock_alert_backend/internal/feature/alerts/usecase"
)

// versionTTL bounds how long an owner's version counter outlives its last write.
const versionTTL = 24 * time.Hour

// setIfVersion stores ARGV[1] at KEYS[1] only while the version at KEYS[2]
// still equals ARGV[2]. A missing version counts as "0".
var setIfVersion = redis.NewScript(`
local v = redis.call("GET", KEYS[2]) or "0"
if v ~= ARGV[2] then
  return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
return 1
`)

// CachingAlertRepository decorates an AlertRepository with a per-owner
// read-through cache of the unread list and the unread count.
//
// Every write for an owner bumps that owner's version and drops the cached
// values. A fill only lands if the version it read before loading is still
// current, so a read racing a write cannot re-cache the pre-write value.
type CachingAlertRepository struct {
	inner     usecase.AlertRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.AlertRepository = (*CachingAlertRepository)(nil)

// NewCachingAlertRepository decorates an AlertRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "alerts".
// A nil rdb disables caching.
func NewCachingAlertRepository(rdb *redis.Client, ttl time.Duration, inner usecase.AlertRepository, namespace string) *CachingAlertRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "alerts"
	}
	return &CachingAlertRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create persists the alert and invalidates the owner's unread cache.
func (c *CachingAlertRepository) Create(ctx context.Context, a *entity.Alert) error {
	if err := c.inner.Create(ctx, a); err != nil {
		return err
	}
	c.invalidate(ctx, a.OwnerID)
	return nil
}

// FindByOwner is not cached; pages change with every new alert.
func (c *CachingAlertRepository) FindByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]entity.Alert, error) {
	return c.inner.FindByOwner(ctx, ownerID, offset, limit)
}

// FindUnreadByOwner returns the unread list, checking the cache first.
func (c *CachingAlertRepository) FindUnreadByOwner(ctx context.Context, ownerID uint) ([]entity.Alert, error) {
	if c.rdb == nil {
		return c.inner.FindUnreadByOwner(ctx, ownerID)
	}

	key := c.unreadKey(ownerID)
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Alert
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// 壊れたキャッシュは削除
		_ = c.rdb.Del(ctx, key).Err()
	}

	ver, ok := c.version(ctx, ownerID)
	out, err := c.inner.FindUnreadByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if ok {
		if b, err := json.Marshal(out); err == nil {
			c.fill(ctx, ownerID, key, string(b), ver)
		}
	}
	return out, nil
}

// CountUnreadByOwner returns the unread count, checking the cache first.
func (c *CachingAlertRepository) CountUnreadByOwner(ctx context.Context, ownerID uint) (int64, error) {
	if c.rdb == nil {
		return c.inner.CountUnreadByOwner(ctx, ownerID)
	}

	key := c.countKey(ownerID)
	if s, err := c.rdb.Get(ctx, key).Result(); err == nil {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	ver, ok := c.version(ctx, ownerID)
	n, err := c.inner.CountUnreadByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if ok {
		c.fill(ctx, ownerID, key, strconv.FormatInt(n, 10), ver)
	}
	return n, nil
}

// MarkRead updates the alerts and invalidates the owner's unread cache.
func (c *CachingAlertRepository) MarkRead(ctx context.Context, ownerID uint, ids []uint) (int64, error) {
	n, err := c.inner.MarkRead(ctx, ownerID, ids)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx, ownerID)
	return n, nil
}

func (c *CachingAlertRepository) unreadKey(ownerID uint) string {
	return fmt.Sprintf("%s:%d:unread", c.namespace, ownerID)
}

func (c *CachingAlertRepository) countKey(ownerID uint) string {
	return fmt.Sprintf("%s:%d:unread_count", c.namespace, ownerID)
}

func (c *CachingAlertRepository) versionKey(ownerID uint) string {
	return fmt.Sprintf("%s:%d:ver", c.namespace, ownerID)
}

// version reads the owner's write version. ok is false when Redis is
// unreachable; the caller then skips the fill.
func (c *CachingAlertRepository) version(ctx context.Context, ownerID uint) (string, bool) {
	v, err := c.rdb.Get(ctx, c.versionKey(ownerID)).Result()
	if errors.Is(err, redis.Nil) {
		return "0", true
	}
	if err != nil {
		return "", false
	}
	return v, true
}

// fill caches val under key if no write happened since ver was read.
func (c *CachingAlertRepository) fill(ctx context.Context, ownerID uint, key, val, ver string) {
	keys := []string{key, c.versionKey(ownerID)}
	if err := setIfVersion.Run(ctx, c.rdb, keys, val, ver, c.ttl.Milliseconds()).Err(); err != nil {
		slog.Debug("alert cache fill skipped", "key", key, "error", err)
	}
}

// invalidate bumps the owner's version, then drops the cached values. Best effort.
func (c *CachingAlertRepository) invalidate(ctx context.Context, ownerID uint) {
	if c.rdb == nil {
		return
	}
	verKey := c.versionKey(ownerID)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, verKey)
		pipe.Expire(ctx, verKey, versionTTL)
		pipe.Del(ctx, c.unreadKey(ownerID), c.countKey(ownerID))
		return nil
	})
	if err != nil {
		slog.Warn("failed to invalidate alert cache", "owner_id", ownerID, "error", err)
	}
}

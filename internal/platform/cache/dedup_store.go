package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDedupStore claims keys with SET NX PX so that the claim expires by itself.
type RedisDedupStore struct {
	rdb       *redis.Client
	namespace string
}

// NewRedisDedupStore creates a RedisDedupStore. If namespace is empty, it uses "dedup".
func NewRedisDedupStore(rdb *redis.Client, namespace string) *RedisDedupStore {
	if namespace == "" {
		namespace = "dedup"
	}
	return &RedisDedupStore{rdb: rdb, namespace: namespace}
}

// Claim returns true when key was free and is now held for window.
func (s *RedisDedupStore) Claim(ctx context.Context, key string, window time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, s.namespace+":"+key, "1", window).Result()
}

// Release drops the claim on key.
func (s *RedisDedupStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.namespace+":"+key).Err()
}

// MemoryDedupStore is the in-process fallback used when Redis is not configured.
type MemoryDedupStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

// NewMemoryDedupStore creates an empty MemoryDedupStore.
func NewMemoryDedupStore() *MemoryDedupStore {
	return &MemoryDedupStore{expires: make(map[string]time.Time), now: time.Now}
}

// Claim returns true when key is not held or its window has passed.
func (s *MemoryDedupStore) Claim(_ context.Context, key string, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.expires[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.expires[key] = now.Add(window)

	// 期限切れのキーを掃除
	for k, exp := range s.expires {
		if !now.Before(exp) {
			delete(s.expires, k)
		}
	}
	return true, nil
}

// Release drops the claim on key.
func (s *MemoryDedupStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expires, key)
	return nil
}

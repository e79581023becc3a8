package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, rl.Wait(ctx))
	}
	assert.Equal(t, 3, rl.count)
}

func TestRateLimiter_ResetsAfterInterval(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }
	rl.lastReset = base

	require.NoError(t, rl.Wait(context.Background()))
	assert.Equal(t, time.Minute, rl.reserve(), "枠が埋まっていれば残り時間を返す")

	now = base.Add(time.Minute)
	assert.Equal(t, time.Duration(0), rl.reserve())
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_ZeroLimitIsUnlimited(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		require.NoError(t, rl.Wait(context.Background()))
	}
}

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	l := NewRedisLimiter(rdb, "ratelimit:test", 2)

	t.Run("許可枠内なら即座に返る", func(t *testing.T) {
		require.NoError(t, l.Wait(context.Background()))
		require.NoError(t, l.Wait(context.Background()))
	})

	t.Run("枠を使い切るとctxの期限で諦める", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		err := l.Wait(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Redisが落ちていればエラー", func(t *testing.T) {
		mr.Close()
		err := l.Wait(context.Background())
		assert.Error(t, err)
	})
}

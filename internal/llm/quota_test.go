package llm

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitsa-assistant/internal/common/logger"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisQuota_Allow(t *testing.T) {
	mr, rdb := setupRedis(t)
	q := NewRedisQuota(rdb, "test:quota", 2, time.Minute, logger.NewTestLogger(t))
	fixed := time.Date(2026, 10, 16, 12, 0, 30, 0, time.UTC)
	q.now = func() time.Time { return fixed }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := q.Allow(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := q.Allow(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	key := q.key()
	assert.Equal(t, "test:quota:1792152000", key)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	q.now = func() time.Time { return fixed.Add(time.Minute) }
	ok, err = q.Allow(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisQuota_Disabled(t *testing.T) {
	_, rdb := setupRedis(t)
	q := NewRedisQuota(rdb, "", 0, 0, logger.NewNoOpLogger())

	for i := 0; i < 5; i++ {
		ok, err := q.Allow(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestRedisQuota_BackendErrorFailsOpen(t *testing.T) {
	mr, rdb := setupRedis(t)
	mr.SetError("READONLY You can't write against a read only replica.")
	q := NewRedisQuota(rdb, "test:quota", 1, time.Minute, logger.NewTestLogger(t))

	ok, err := q.Allow(context.Background())

	assert.Error(t, err)
	assert.True(t, ok)
}

package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/llm"
	"bitsa-assistant/internal/llm/llmtest"
)

type fixedQuota struct {
	allow bool
	err   error
	calls int
}

func (q *fixedQuota) Allow(ctx context.Context) (bool, error) {
	q.calls++
	return q.allow, q.err
}

func TestRateLimited_PassesThrough(t *testing.T) {
	stub := llmtest.NewStub("hello")
	rl := llm.NewRateLimited(stub, rate.NewLimiter(rate.Inf, 1), &fixedQuota{allow: true})

	text, err := rl.Complete(context.Background(), nil, llm.Options{Temperature: 0.3})

	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, 0.3, stub.LastCall().Options.Temperature)
	assert.Equal(t, "stub-model", rl.Model())
}

func TestRateLimited_QuotaExceeded(t *testing.T) {
	stub := llmtest.NewStub("never")
	quota := &fixedQuota{allow: false}
	rl := llm.NewRateLimited(stub, nil, quota)

	_, err := rl.Complete(context.Background(), nil, llm.Options{})

	assert.ErrorIs(t, err, llm.ErrQuotaExceeded)
	assert.Equal(t, 0, stub.CallCount())
}

func TestRateLimited_QuotaBackendErrorAllows(t *testing.T) {
	stub := llmtest.NewStub("ok")
	rl := llm.NewRateLimited(stub, nil, &fixedQuota{allow: true, err: errors.New("redis down")})

	text, err := rl.Complete(context.Background(), nil, llm.Options{})

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestRateLimited_LimiterHonoursDeadline(t *testing.T) {
	stub := llmtest.NewStub("ok")
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	rl := llm.NewRateLimited(stub, limiter, nil)

	_, err := rl.Complete(context.Background(), nil, llm.Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = rl.Complete(ctx, nil, llm.Options{})

	assert.Error(t, err)
	assert.Equal(t, 1, stub.CallCount())
}

func TestRateLimited_WithRedisQuota(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	stub := llmtest.NewStub("ok")
	quota := llm.NewRedisQuota(rdb, "rl:test", 1, time.Minute, logger.NewTestLogger(t))
	rl := llm.NewRateLimited(stub, nil, quota)

	_, err = rl.Complete(context.Background(), nil, llm.Options{})
	require.NoError(t, err)
	_, err = rl.Complete(context.Background(), nil, llm.Options{})
	assert.ErrorIs(t, err, llm.ErrQuotaExceeded)
	assert.Equal(t, 1, stub.CallCount())
}

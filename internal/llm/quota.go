package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bitsa-assistant/internal/common/logger"
)

// RedisQuota is a fixed-window counter shared across processes.
type RedisQuota struct {
	client redis.Cmdable
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
	logger logger.Logger
}

func NewRedisQuota(client redis.Cmdable, prefix string, limit int64, window time.Duration, log logger.Logger) *RedisQuota {
	if prefix == "" {
		prefix = "assistant:completions"
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisQuota{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
		logger: log,
	}
}

func (q *RedisQuota) key() string {
	bucket := q.now().UTC().Truncate(q.window).Unix()
	return fmt.Sprintf("%s:%d", q.prefix, bucket)
}

// Allow increments the current window and reports whether it is within limit.
// A non-positive limit disables the quota.
func (q *RedisQuota) Allow(ctx context.Context) (bool, error) {
	if q.limit <= 0 {
		return true, nil
	}

	key := q.key()
	pipe := q.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, q.window)
	if _, err := pipe.Exec(ctx); err != nil {
		q.logger.Warn("quota check failed, allowing call", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return true, err
	}

	count := incr.Val()
	if count > q.limit {
		q.logger.Warn("completion quota exceeded", map[string]interface{}{
			"key":   key,
			"count": count,
			"limit": q.limit,
		})
		return false, nil
	}
	return true, nil
}

package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"bitsa-assistant/internal/common/config"
	"bitsa-assistant/internal/common/logger"
)

// NewFromConfig builds the configured provider wrapped with instrumentation,
// local throttling and, when rdb is non-nil, the shared per-minute quota.
func NewFromConfig(ctx context.Context, cfg config.CompletionConfig, rdb redis.Cmdable, log logger.Logger) (Completer, error) {
	timeout := config.GetDuration(cfg.Timeout)

	var provider Completer
	switch cfg.Provider {
	case "", ProviderGroq:
		provider = NewGroqClient(GroqConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Timeout: timeout,
		}, log)
	case ProviderGemini:
		gemini, err := NewGeminiClient(ctx, GeminiConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			Timeout: timeout,
		}, log)
		if err != nil {
			return nil, err
		}
		provider = gemini
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}

	name := cfg.Provider
	if name == "" {
		name = ProviderGroq
	}
	completer := Completer(NewInstrumented(provider, name))

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	var quota Quota
	if rdb != nil && cfg.QuotaPerMinute > 0 {
		quota = NewRedisQuota(rdb, "assistant:completions", int64(cfg.QuotaPerMinute), time.Minute, log)
	}

	if limiter != nil || quota != nil {
		completer = NewRateLimited(completer, limiter, quota)
	}
	return completer, nil
}

package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"bitsa-assistant/internal/models"
)

// Quota admits or rejects a call against a shared budget.
type Quota interface {
	Allow(ctx context.Context) (bool, error)
}

// RateLimited throttles calls locally and, when quota is set, against a
// budget shared by every worker process.
type RateLimited struct {
	next    Completer
	limiter *rate.Limiter
	quota   Quota
}

func NewRateLimited(next Completer, limiter *rate.Limiter, quota Quota) *RateLimited {
	return &RateLimited{next: next, limiter: limiter, quota: quota}
}

func (r *RateLimited) Model() string {
	return r.next.Model()
}

func (r *RateLimited) Complete(ctx context.Context, turns []models.ConversationTurn, opts Options) (string, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return "", classifyError(ctx, fmt.Errorf("rate limiter: %w", err))
		}
	}
	if r.quota != nil {
		ok, err := r.quota.Allow(ctx)
		if err == nil && !ok {
			return "", ErrQuotaExceeded
		}
		// a quota backend error is not a reason to refuse the call
	}
	return r.next.Complete(ctx, turns, opts)
}

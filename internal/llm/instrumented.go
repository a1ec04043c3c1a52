package llm

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"bitsa-assistant/internal/common/metrics"
	"bitsa-assistant/internal/models"
)

// Instrumented records metrics and a span around every completion. It also
// turns a blank reply into ErrGenerationFailed so no caller mistakes it for an answer.
type Instrumented struct {
	next     Completer
	provider string
}

func NewInstrumented(next Completer, provider string) *Instrumented {
	return &Instrumented{next: next, provider: provider}
}

func (i *Instrumented) Model() string {
	return i.next.Model()
}

func (i *Instrumented) Complete(ctx context.Context, turns []models.ConversationTurn, opts Options) (string, error) {
	ctx, span := otel.Tracer("bitsa-assistant/llm").Start(ctx, "llm.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", i.provider),
		attribute.String("llm.model", i.next.Model()),
		attribute.String("llm.mode", opts.mode()),
		attribute.Float64("llm.temperature", opts.Temperature),
		attribute.Int("llm.turns", len(turns)),
	)

	start := time.Now()
	text, err := i.next.Complete(ctx, turns, opts)
	metrics.CompletionDuration.WithLabelValues(i.provider, opts.mode()).Observe(time.Since(start).Seconds())

	if err == nil && isBlank(text) {
		err = ErrEmptyCompletion
	}

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.CompletionRequests.WithLabelValues(i.provider, opts.mode(), status).Inc()

	if err != nil {
		return "", err
	}
	return text, nil
}

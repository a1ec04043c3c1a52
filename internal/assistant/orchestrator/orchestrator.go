// Package orchestrator composes classification, retrieval, serialization,
// completion and the grounding guard into the chat and search operations.
package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bitsa-assistant/internal/assistant/classifier"
	"bitsa-assistant/internal/assistant/contextblock"
	"bitsa-assistant/internal/assistant/generator"
	"bitsa-assistant/internal/assistant/guard"
	"bitsa-assistant/internal/assistant/retriever"
	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/llm"
	"bitsa-assistant/internal/models"
)

var tracer = otel.Tracer("bitsa-assistant/orchestrator")

// Config tunes the chat completions. Temperatures are used as given, zero
// included; only negative values fall back to DefaultConfig.
type Config struct {
	ChatTemperature  float64
	RetryTemperature float64
	MaxTokens        int
	MaxHistoryTurns  int
}

func DefaultConfig() Config {
	return Config{
		ChatTemperature:  0.3,
		RetryTemperature: 0.1,
		MaxTokens:        1024,
		MaxHistoryTurns:  20,
	}
}

type Orchestrator struct {
	retriever *retriever.Retriever
	completer llm.Completer
	guard     *guard.Guard
	generator *generator.Generator
	config    Config
	logger    logger.Logger
}

func New(r *retriever.Retriever, completer llm.Completer, g *guard.Guard, gen *generator.Generator, config Config, log logger.Logger) *Orchestrator {
	def := DefaultConfig()
	if config.ChatTemperature < 0 {
		config.ChatTemperature = def.ChatTemperature
	}
	if config.RetryTemperature < 0 {
		config.RetryTemperature = def.RetryTemperature
	}
	// The regeneration never runs hotter than the first attempt.
	if config.RetryTemperature > config.ChatTemperature {
		config.RetryTemperature = config.ChatTemperature
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = def.MaxTokens
	}
	if config.MaxHistoryTurns <= 0 {
		config.MaxHistoryTurns = def.MaxHistoryTurns
	}
	return &Orchestrator{
		retriever: r,
		completer: completer,
		guard:     g,
		generator: gen,
		config:    config,
		logger:    log,
	}
}

// Ground classifies the message, retrieves records and serializes them.
func (o *Orchestrator) Ground(ctx context.Context, message string) (models.RetrievalQuery, contextblock.Block) {
	_, span := tracer.Start(ctx, "assistant.classify")
	query := classifier.Classify(message)
	span.SetAttributes(attribute.Bool("assistant.broad", query.IsBroad))
	span.End()

	rctx, span := tracer.Start(ctx, "assistant.retrieve")
	retrieval := o.retriever.Retrieve(rctx, query)
	span.SetAttributes(attribute.Int("assistant.items", retrieval.Total()))
	span.End()

	if len(retrieval.Failed) > 0 {
		kinds := make([]string, 0, len(retrieval.Failed))
		for kind := range retrieval.Failed {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)
		o.logger.Warn("Retrieval partially failed", map[string]interface{}{
			"errorCode": "RETRIEVAL_PARTIAL_FAILURE",
			"kinds":     kinds,
		})
	}

	_, span = tracer.Start(ctx, "assistant.serialize")
	block := contextblock.Serialize(retrieval)
	span.End()

	return query, block
}

// Answer runs one grounded chat turn. At most two completion calls are made.
func (o *Orchestrator) Answer(ctx context.Context, message string, history []models.ConversationTurn) (models.AssistantAnswer, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.AssistantAnswer{}, fmt.Errorf("%w: Message is required", models.ErrInvalidParameters)
	}

	requestID := uuid.NewString()
	log := o.logger.WithFields(map[string]interface{}{"requestId": requestID})

	ctx, span := tracer.Start(ctx, "assistant.answer", trace.WithAttributes(attribute.String("request.id", requestID)))
	defer span.End()

	query, block := o.Ground(ctx, message)
	turns := Conversation(SystemPrompt(block), history, message, o.config.MaxHistoryTurns)

	log.Debug("Answering", map[string]interface{}{
		"broad":      query.IsBroad,
		"totalItems": block.Total,
		"turns":      len(turns),
	})

	first, err := o.complete(ctx, turns, o.config.ChatTemperature)
	if err != nil {
		span.RecordError(err)
		return models.AssistantAnswer{}, err
	}

	gctx, gspan := tracer.Start(ctx, "assistant.guard")
	answer, err := o.guard.Check(gctx, first, func(ctx context.Context) (string, error) {
		return o.complete(ctx, withAdmonition(turns), o.config.RetryTemperature)
	})
	gspan.SetAttributes(attribute.Bool("assistant.regenerated", answer.Regenerated))
	gspan.End()
	if err != nil {
		span.RecordError(err)
		return models.AssistantAnswer{}, err
	}

	answer.Model = o.completer.Model()
	log.Info("Answered", map[string]interface{}{
		"regenerated": answer.Regenerated,
		"model":       answer.Model,
	})
	return answer, nil
}

func (o *Orchestrator) complete(ctx context.Context, turns []models.ConversationTurn, temperature float64) (string, error) {
	ctx, span := tracer.Start(ctx, "assistant.complete")
	defer span.End()

	text, err := o.completer.Complete(ctx, turns, llm.Options{
		Temperature: temperature,
		MaxTokens:   o.config.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", llm.ErrEmptyCompletion
	}
	return text, nil
}

// Search grounds the query like Answer and asks for a structured summary.
func (o *Orchestrator) Search(ctx context.Context, query string) (models.SearchSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.SearchSummary{}, fmt.Errorf("%w: Search query is required", models.ErrInvalidParameters)
	}

	ctx, span := tracer.Start(ctx, "assistant.search")
	defer span.End()

	_, block := o.Ground(ctx, query)
	return o.generator.SearchSummary(ctx, query, block)
}

// Package generator implements the single-shot structured generation
// operations: blog drafting, translation, project feedback, event
// descriptions and search summaries.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/common/metrics"
	"bitsa-assistant/internal/common/validation"
	"bitsa-assistant/internal/llm"
	"bitsa-assistant/internal/models"
)

// Operation names used in logs, metrics and audit events.
const (
	OpBlog      = "generate-blog-content"
	OpTranslate = "translate-content"
	OpFeedback  = "generate-project-feedback"
	OpEvent     = "generate-event-description"
	OpSearch    = "assistant-search"
)

type Generator struct {
	completer llm.Completer
	logger    logger.Logger
}

func New(completer llm.Completer, log logger.Logger) *Generator {
	return &Generator{
		completer: completer,
		logger:    log.WithFields(map[string]interface{}{"component": "generator"}),
	}
}

// Model reports the model behind the completer.
func (g *Generator) Model() string {
	return g.completer.Model()
}

func (g *Generator) single(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	return g.completer.Complete(ctx, []models.ConversationTurn{
		{Role: models.RoleUser, Content: prompt},
	}, opts)
}

// decodeStructured parses a JSON-mode reply. Unparseable replies yield an
// empty document and top-level fields that fail schema validation are
// dropped, so callers always receive the documented empty shape.
func (g *Generator) decodeStructured(operation, raw string, schema validation.JSONSchema) map[string]interface{} {
	doc, err := parseObject(raw)
	if err != nil {
		metrics.StructuredFallbacks.WithLabelValues(operation).Inc()
		g.logger.Warn("Model output is not a JSON object, using defaults", map[string]interface{}{
			"operation": operation,
			"errorCode": "MALFORMED_MODEL_OUTPUT",
			"error":     err.Error(),
		})
		return map[string]interface{}{}
	}

	result := validation.ValidateInput(doc, schema)
	if result.Valid {
		return doc
	}

	invalid := result.InvalidTopLevelFields()
	for field := range invalid {
		delete(doc, field)
	}
	metrics.StructuredFallbacks.WithLabelValues(operation).Inc()
	g.logger.Warn("Model output failed schema validation, dropping fields", map[string]interface{}{
		"operation": operation,
		"errorCode": "MALFORMED_MODEL_OUTPUT",
		"errors":    result.GetErrorMessages(),
	})
	return doc
}

func parseObject(raw string) (map[string]interface{}, error) {
	text := stripCodeFence(raw)
	var doc map[string]interface{}
	err := json.Unmarshal([]byte(text), &doc)
	if err != nil {
		start, end := strings.IndexByte(text, '{'), strings.LastIndexByte(text, '}')
		if start < 0 || end <= start {
			return nil, err
		}
		doc = nil
		if err2 := json.Unmarshal([]byte(text[start:end+1]), &doc); err2 != nil {
			return nil, err
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("reply is null")
	}
	return doc, nil
}

// stripCodeFence unwraps ```json ... ``` blocks some models emit even in JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimLeft(s, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func stringField(doc map[string]interface{}, key string) string {
	if s, ok := doc[key].(string); ok {
		return s
	}
	return ""
}

func stringSlice(doc map[string]interface{}, key string) []string {
	raw, ok := doc[key].([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

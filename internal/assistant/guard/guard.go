// Package guard lints model answers for deflections away from the supplied context.
package guard

import (
	"context"
	"strings"

	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/common/metrics"
	"bitsa-assistant/internal/models"
)

// DenyList holds lower-case phrases that signal the model ignored its context.
var DenyList = []string{
	"i need to check",
	"i would need to check",
	"contact our leaders",
	"contact the leaders",
	"contact the club",
	"contact bitsa",
	"for the most accurate information",
	"for the most up-to-date information",
	"check the website",
	"check our website",
	"visit the website",
	"visit our website",
	"check the official",
	"i recommend checking",
	"i don't have access to",
	"i do not have access to",
	"i don't have real-time",
	"i cannot browse",
	"reach out to the club",
}

// RetryFunc reissues the conversation with stricter instructions.
type RetryFunc func(ctx context.Context) (string, error)

type Guard struct {
	phrases []string
	logger  logger.Logger
}

func New(log logger.Logger) *Guard {
	return NewWithPhrases(DenyList, log)
}

func NewWithPhrases(phrases []string, log logger.Logger) *Guard {
	lowered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		lowered = append(lowered, strings.ToLower(p))
	}
	return &Guard{
		phrases: lowered,
		logger:  log.With(map[string]interface{}{"component": "guard"}),
	}
}

// Match returns the first deny-listed phrase found in answer.
func (g *Guard) Match(answer string) (string, bool) {
	lower := strings.ToLower(answer)
	for _, p := range g.phrases {
		if strings.Contains(lower, p) {
			return p, true
		}
	}
	return "", false
}

// Check returns answer unchanged when it is clean. Otherwise it calls retry
// exactly once and returns that result as regenerated, whatever it contains.
func (g *Guard) Check(ctx context.Context, answer string, retry RetryFunc) (models.AssistantAnswer, error) {
	phrase, hit := g.Match(answer)
	if !hit {
		return models.AssistantAnswer{Text: answer}, nil
	}

	metrics.GuardRegenerations.Inc()
	g.logger.Info("deflection detected, regenerating once", map[string]interface{}{
		"phrase": phrase,
	})

	text, err := retry(ctx)
	if err != nil {
		return models.AssistantAnswer{}, err
	}

	if again, still := g.Match(text); still {
		g.logger.Warn("regenerated answer still deflects", map[string]interface{}{
			"phrase": again,
		})
	}

	return models.AssistantAnswer{Text: text, Regenerated: true}, nil
}

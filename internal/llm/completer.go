// Package llm talks to the text-completion service.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bitsa-assistant/internal/models"
)

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

var (
	ErrGenerationFailed  = errors.New("GENERATION_FAILED")
	ErrGenerationTimeout = errors.New("GENERATION_TIMEOUT")
	ErrQuotaExceeded     = errors.New("GENERATION_QUOTA_EXCEEDED")

	ErrEmptyCompletion = fmt.Errorf("%w: empty completion", ErrGenerationFailed)
)

// Options apply to a single completion call.
type Options struct {
	Temperature float64
	MaxTokens   int
	// JSONMode asks the provider to return a single JSON object.
	JSONMode bool
}

func (o Options) mode() string {
	if o.JSONMode {
		return "json"
	}
	return "text"
}

// Completer returns the model's reply to a conversation. Errors wrap
// ErrGenerationFailed, ErrGenerationTimeout or ErrQuotaExceeded.
type Completer interface {
	Complete(ctx context.Context, turns []models.ConversationTurn, opts Options) (string, error)
	Model() string
}

// classifyError maps transport failures onto the package sentinels.
func classifyError(ctx context.Context, err error) error {
	if errors.Is(err, ErrGenerationFailed) || errors.Is(err, ErrGenerationTimeout) || errors.Is(err, ErrQuotaExceeded) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrGenerationTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

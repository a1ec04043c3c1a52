package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apphttp "bitsa-assistant/internal/common/http"
	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/models"
)

const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "llama-3.3-70b-versatile"
)

type GroqConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GroqClient speaks the OpenAI-compatible chat completions API.
type GroqClient struct {
	config GroqConfig
	client *apphttp.Client
	logger logger.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func NewGroqClient(config GroqConfig, log logger.Logger) *GroqClient {
	if config.BaseURL == "" {
		config.BaseURL = DefaultGroqBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultGroqModel
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &GroqClient{
		config: config,
		// transport backstop; the per-call context carries the real deadline
		client: apphttp.NewClient(config.Timeout + 5*time.Second),
		logger: log.With(map[string]interface{}{
			"provider": ProviderGroq,
			"model":    config.Model,
		}),
	}
}

func (c *GroqClient) Model() string {
	return c.config.Model
}

func (c *GroqClient) Complete(ctx context.Context, turns []models.ConversationTurn, opts Options) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req := chatRequest{
		Model:       c.config.Model,
		Messages:    make([]chatMessage, 0, len(turns)),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	for _, t := range turns {
		req.Messages = append(req.Messages, chatMessage{Role: string(t.Role), Content: t.Content})
	}
	if opts.JSONMode {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	resp, err := c.client.PostJSON(ctx, url, map[string]string{
		"Authorization": "Bearer " + c.config.APIKey,
	}, req)
	if err != nil {
		return "", classifyError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail := apphttp.ReadErrorBody(resp, 2048)
		c.logger.Error("completion request rejected", map[string]interface{}{
			"status": resp.StatusCode,
			"body":   detail,
		})
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: provider rate limit: %s", ErrQuotaExceeded, detail)
		}
		return "", fmt.Errorf("%w: status %d", ErrGenerationFailed, resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", classifyError(ctx, fmt.Errorf("decode response: %w", err))
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrGenerationFailed)
	}

	return out.Choices[0].Message.Content, nil
}

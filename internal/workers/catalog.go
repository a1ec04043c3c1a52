// Package workers describes the task types this service implements.
package workers

import (
	"fmt"
	"time"

	"bitsa-assistant/internal/common/config"
	"bitsa-assistant/internal/common/errors"
	"bitsa-assistant/internal/common/validation"
	chat "bitsa-assistant/internal/workers/assistant/assistant-chat"
	search "bitsa-assistant/internal/workers/assistant/assistant-search"
	event "bitsa-assistant/internal/workers/content/generate-event-description"
	blog "bitsa-assistant/internal/workers/content/generate-blog-content"
	feedback "bitsa-assistant/internal/workers/content/generate-project-feedback"
	translate "bitsa-assistant/internal/workers/content/translate-content"
	"bitsa-assistant/pkg/registry"
)

type Definition struct {
	ID             string
	TaskType       string
	DisplayName    string
	Description    string
	Category       string
	FetchVariables []string
	InputSchema    validation.JSONSchema
	OutputSchema   validation.JSONSchema
	ErrorCodes     []errors.ErrorCode
	Tags           []string
}

var generationErrors = []errors.ErrorCode{
	errors.ErrCodeInvalidParameters,
	errors.ErrCodeGenerationFailed,
	errors.ErrCodeGenerationTimeout,
	errors.ErrCodeGenerationQuota,
}

func withErrors(codes ...errors.ErrorCode) []errors.ErrorCode {
	return append(append([]errors.ErrorCode(nil), generationErrors...), codes...)
}

// Definitions lists every task type in registration order.
func Definitions() []Definition {
	return []Definition{
		{
			ID:             "assistant.chat.answer",
			TaskType:       chat.TaskType,
			DisplayName:    "Answer Chat Message",
			Description:    "Answers a member's question from the club's own records, regenerating once if the reply deflects",
			Category:       "assistant",
			FetchVariables: chat.FetchVariables,
			InputSchema:    chat.GetInputSchema(),
			OutputSchema:   chat.GetOutputSchema(),
			ErrorCodes:     withErrors(errors.ErrCodeRecordStoreUnavailable),
			Tags:           []string{"ai", "chat", "grounded"},
		},
		{
			ID:             "assistant.search.summarize",
			TaskType:       search.TaskType,
			DisplayName:    "Summarize Search",
			Description:    "Summarizes club content relevant to a search query",
			Category:       "assistant",
			FetchVariables: search.FetchVariables,
			InputSchema:    search.GetInputSchema(),
			OutputSchema:   search.GetOutputSchema(),
			ErrorCodes:     withErrors(errors.ErrCodeRecordStoreUnavailable),
			Tags:           []string{"ai", "search"},
		},
		{
			ID:             "content.blog.generate",
			TaskType:       blog.TaskType,
			DisplayName:    "Generate Blog Content",
			Description:    "Drafts a blog post with a title, markdown body and slug",
			Category:       "content",
			FetchVariables: blog.FetchVariables,
			InputSchema:    blog.GetInputSchema(),
			OutputSchema:   blog.GetOutputSchema(),
			ErrorCodes:     withErrors(errors.ErrCodeInvalidLanguage),
			Tags:           []string{"ai", "blog"},
		},
		{
			ID:             "content.text.translate",
			TaskType:       translate.TaskType,
			DisplayName:    "Translate Content",
			Description:    "Translates a title and body into a supported language",
			Category:       "content",
			FetchVariables: translate.FetchVariables,
			InputSchema:    translate.GetInputSchema(),
			OutputSchema:   translate.GetOutputSchema(),
			ErrorCodes:     withErrors(errors.ErrCodeInvalidLanguage),
			Tags:           []string{"ai", "i18n"},
		},
		{
			ID:             "content.project.review",
			TaskType:       feedback.TaskType,
			DisplayName:    "Generate Project Feedback",
			Description:    "Reviews a member project and rates it from 0 to 10",
			Category:       "content",
			FetchVariables: feedback.FetchVariables,
			InputSchema:    feedback.GetInputSchema(),
			OutputSchema:   feedback.GetOutputSchema(),
			ErrorCodes:     withErrors(),
			Tags:           []string{"ai", "projects"},
		},
		{
			ID:             "content.event.describe",
			TaskType:       event.TaskType,
			DisplayName:    "Generate Event Description",
			Description:    "Writes a promotional description for an event",
			Category:       "content",
			FetchVariables: event.FetchVariables,
			InputSchema:    event.GetInputSchema(),
			OutputSchema:   event.GetOutputSchema(),
			ErrorCodes:     withErrors(errors.ErrCodeInvalidLanguage),
			Tags:           []string{"ai", "events"},
		},
	}
}

// Registry renders the definitions as an activity registry. Timeouts and
// retries come from the worker sections of cfg.
func Registry(cfg *config.Config, version string) (*registry.ActivityRegistry, error) {
	reg := &registry.ActivityRegistry{
		Version:     version,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}

	for _, d := range Definitions() {
		in, err := registry.SchemaMap(d.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("%s input schema: %w", d.TaskType, err)
		}
		out, err := registry.SchemaMap(d.OutputSchema)
		if err != nil {
			return nil, fmt.Errorf("%s output schema: %w", d.TaskType, err)
		}

		codes := make([]string, 0, len(d.ErrorCodes))
		for _, c := range d.ErrorCodes {
			codes = append(codes, errors.BPMNErrorMapping[c])
		}

		wcfg := config.GetWorkerConfig(cfg, d.TaskType)
		reg.Activities = append(reg.Activities, registry.Activity{
			ID:                   d.ID,
			DisplayName:          d.DisplayName,
			Description:          d.Description,
			Category:             d.Category,
			Version:              version,
			TaskType:             d.TaskType,
			ImplementationStatus: "completed",
			InputSchema:          in,
			OutputSchema:         out,
			FetchVariables:       d.FetchVariables,
			ErrorCodes:           codes,
			Timeout:              (time.Duration(wcfg.Timeout) * time.Millisecond).String(),
			Retries:              wcfg.MaxRetries,
			Tags:                 d.Tags,
		})
	}
	return reg, nil
}

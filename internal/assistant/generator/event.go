package generator

import (
	"context"
	"fmt"
	"strings"

	"bitsa-assistant/internal/llm"
	"bitsa-assistant/internal/models"
)

const eventPrompt = `Write an engaging description, in %[1]s, for an event run by a university technology club.

Event: %[2]s
Type: %[3]s
Audience: %[4]s

Write two or three paragraphs that:
- explain what attendees will learn or experience
- highlight why it is worth attending
- encourage people to register, in a warm and welcoming tone

Write only in %[1]s. Reply with the description text alone.`

// EventDescription returns plain prose. A blank reply is a generation failure.
func (g *Generator) EventDescription(ctx context.Context, req EventRequest) (string, error) {
	req.normalize()
	if err := req.Validate(); err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(eventPrompt, models.LanguageName(req.Language), req.Title, req.Type, req.Audience)

	text, err := g.single(ctx, prompt, llm.Options{Temperature: 0.8, MaxTokens: 512})
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", llm.ErrEmptyCompletion
	}
	return text, nil
}

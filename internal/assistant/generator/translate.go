package generator

import (
	"context"
	"fmt"

	"bitsa-assistant/internal/common/validation"
	"bitsa-assistant/internal/llm"
	"bitsa-assistant/internal/models"
)

var translationSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"title": {Type: "string"},
		"body":  {Type: "string"},
	},
	AdditionalProperties: true,
}

const translatePrompt = `Translate the content below into %[1]s.

Keep the tone, style and formatting. The result should read naturally to %[1]s speakers.

Title: %[2]s
Body: %[3]s

Reply with a JSON object of exactly this shape:
{
  "title": "translated title",
  "body": "translated body"
}`

// Translate renders a title and body into the target language. Unknown
// language codes fall back to English here; rejecting them is the caller's job.
func (g *Generator) Translate(ctx context.Context, req TranslateRequest) (models.Translation, error) {
	req.normalize()
	if err := req.Validate(); err != nil {
		return models.Translation{}, err
	}

	prompt := fmt.Sprintf(translatePrompt, models.LanguageName(req.TargetLanguage), req.Title, req.Body)

	raw, err := g.single(ctx, prompt, llm.Options{Temperature: 0.3, MaxTokens: 2048, JSONMode: true})
	if err != nil {
		return models.Translation{}, err
	}

	doc := g.decodeStructured(OpTranslate, raw, translationSchema)
	return models.Translation{
		Title: stringField(doc, "title"),
		Body:  stringField(doc, "body"),
	}, nil
}

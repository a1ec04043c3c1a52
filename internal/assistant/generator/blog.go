package generator

import (
	"context"
	"fmt"

	"bitsa-assistant/internal/common/validation"
	"bitsa-assistant/internal/llm"
	"bitsa-assistant/internal/models"
)

var blogSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"title":   {Type: "string"},
		"content": {Type: "string"},
	},
	AdditionalProperties: true,
}

const blogPrompt = `Write a %[1]s blog post about "%[2]s" for BITSA, a university technology club. Write it in %[3]s.

Category: %[4]s

Requirements:
- The whole post, title included, must be in %[3]s
- Engaging and informative for students
- Include practical examples or tips
- 500 to 800 words, organised in paragraphs

Reply with a JSON object of exactly this shape:
{
  "title": "post title in %[3]s",
  "content": "full post body"
}`

// GenerateBlogContent drafts a blog post and derives its slug from the title.
func (g *Generator) GenerateBlogContent(ctx context.Context, req BlogRequest) (models.BlogDraft, error) {
	req.normalize()
	if err := req.Validate(); err != nil {
		return models.BlogDraft{}, err
	}

	language := models.LanguageName(req.Language)
	prompt := fmt.Sprintf(blogPrompt, req.Tone, req.Topic, language, req.Category)

	raw, err := g.single(ctx, prompt, llm.Options{Temperature: 0.8, MaxTokens: 2048, JSONMode: true})
	if err != nil {
		return models.BlogDraft{}, err
	}

	doc := g.decodeStructured(OpBlog, raw, blogSchema)
	title := stringField(doc, "title")
	return models.BlogDraft{
		Title:   title,
		Content: stringField(doc, "content"),
		Slug:    Slugify(title),
	}, nil
}

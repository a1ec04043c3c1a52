package generator

import (
	"context"
	"fmt"
	"math"
	"strings"

	"bitsa-assistant/internal/common/validation"
	"bitsa-assistant/internal/llm"
	"bitsa-assistant/internal/models"
)

const (
	MinRating = 0.0
	MaxRating = 10.0
)

var feedbackSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"feedback":    {Type: "string"},
		"suggestions": {Type: "array", Items: &validation.Property{Type: "string"}},
		"rating":      {Type: "number"},
	},
	AdditionalProperties: true,
}

const feedbackPrompt = `You are a mentor reviewing a student technology project.

Title: %s
Description: %s
%s
Give constructive feedback and concrete suggestions for improvement.

Reply with a JSON object of exactly this shape:
{
  "feedback": "constructive feedback, two or three paragraphs",
  "suggestions": ["suggestion", "suggestion", "suggestion"],
  "rating": 7.5
}

rating is a number from 0 to 10 reflecting innovation, technical complexity and practical value.`

// ProjectFeedback reviews a project. The rating is always within [MinRating, MaxRating].
func (g *Generator) ProjectFeedback(ctx context.Context, req FeedbackRequest) (models.ProjectFeedback, error) {
	req.normalize()
	if err := req.Validate(); err != nil {
		return models.ProjectFeedback{}, err
	}

	stack := ""
	if req.TechStack != "" {
		stack = "Tech stack: " + req.TechStack + "\n"
	}
	prompt := fmt.Sprintf(feedbackPrompt, req.Title, req.Description, stack)

	raw, err := g.single(ctx, prompt, llm.Options{Temperature: 0.7, MaxTokens: 1024, JSONMode: true})
	if err != nil {
		return models.ProjectFeedback{}, err
	}

	doc := g.decodeStructured(OpFeedback, raw, feedbackSchema)
	rating, _ := doc["rating"].(float64)
	return models.ProjectFeedback{
		Feedback:    strings.TrimSpace(stringField(doc, "feedback")),
		Suggestions: stringSlice(doc, "suggestions"),
		Rating:      ClampRating(rating),
	}, nil
}

// ClampRating maps any float into [MinRating, MaxRating]; NaN becomes MinRating.
func ClampRating(r float64) float64 {
	if math.IsNaN(r) {
		return MinRating
	}
	return math.Max(MinRating, math.Min(MaxRating, r))
}

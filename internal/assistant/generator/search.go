package generator

import (
	"context"
	"fmt"
	"strings"

	"bitsa-assistant/internal/assistant/contextblock"
	"bitsa-assistant/internal/common/validation"
	"bitsa-assistant/internal/llm"
	"bitsa-assistant/internal/models"
)

var searchSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"summary": {Type: "string"},
		"relevantItems": {
			Type: "array",
			Items: &validation.Property{
				Type: "object",
				Properties: map[string]validation.Property{
					"type":      {Type: "string"},
					"title":     {Type: "string"},
					"relevance": {Type: "string"},
				},
			},
		},
		"suggestions": {Type: "array", Items: &validation.Property{Type: "string"}},
	},
	AdditionalProperties: true,
}

const searchPrompt = `Search query: "%s"

Database content:
%s

Summarise the information above that is most relevant to the query. Use only that content.

Reply with a JSON object of exactly this shape:
{
  "summary": "short summary of what was found",
  "relevantItems": [
    {"type": "blog|event|project|leader|report", "title": "...", "relevance": "why it matches"}
  ],
  "suggestions": ["related search", "related search"]
}`

// SearchSummary asks for a structured summary of an already serialized context block.
func (g *Generator) SearchSummary(ctx context.Context, query string, block contextblock.Block) (models.SearchSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.SearchSummary{}, invalid("Search query is required")
	}

	prompt := fmt.Sprintf(searchPrompt, query, block.String())
	raw, err := g.single(ctx, prompt, llm.Options{Temperature: 0.5, MaxTokens: 1024, JSONMode: true})
	if err != nil {
		return models.SearchSummary{}, err
	}

	doc := g.decodeStructured(OpSearch, raw, searchSchema)
	summary := models.SearchSummary{
		Summary:       stringField(doc, "summary"),
		RelevantItems: []models.RelevantItem{},
		Suggestions:   stringSlice(doc, "suggestions"),
	}
	if items, ok := doc["relevantItems"].([]interface{}); ok {
		for _, it := range items {
			m, ok := it.(map[string]interface{})
			if !ok || strings.TrimSpace(stringField(m, "title")) == "" {
				continue
			}
			summary.RelevantItems = append(summary.RelevantItems, models.RelevantItem{
				Type:      stringField(m, "type"),
				Title:     stringField(m, "title"),
				Relevance: stringField(m, "relevance"),
			})
		}
	}
	return summary, nil
}

package assistantsearch

import "bitsa-assistant/internal/common/validation"

var FetchVariables = []string{"query"}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"query": {
				Type:        "string",
				Description: "Free-text search over club content",
				MaxLength:   validation.Int(500),
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"searchSummary", "relevantItems", "suggestions"},
		Properties: map[string]validation.Property{
			"searchSummary": {Type: "string"},
			"relevantItems": {
				Type: "array",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"type", "title"},
					Properties: map[string]validation.Property{
						"type":      {Type: "string"},
						"title":     {Type: "string"},
						"relevance": {Type: "string"},
					},
				},
			},
			"suggestions": {Type: "array", Items: &validation.Property{Type: "string"}},
		},
		AdditionalProperties: false,
	}
}

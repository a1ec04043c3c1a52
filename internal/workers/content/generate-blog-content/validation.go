package generateblogcontent

import (
	"bitsa-assistant/internal/common/camunda"
	"bitsa-assistant/internal/common/validation"
)

var FetchVariables = []string{"topic", "category", "language", "tone"}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"topic":    {Type: "string", Description: "What the post is about", MaxLength: validation.Int(500)},
			"category": {Type: "string", Description: "Blog category", MaxLength: validation.Int(100)},
			"language": camunda.LanguageProperty("Language to write in; defaults to en", true),
			"tone":     {Type: "string", Description: "professional, casual or academic"},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"blogTitle", "blogContent", "blogSlug"},
		Properties: map[string]validation.Property{
			"blogTitle":   {Type: "string"},
			"blogContent": {Type: "string", Description: "Markdown body"},
			"blogSlug":    {Type: "string", Description: "URL slug derived from the title"},
		},
		AdditionalProperties: false,
	}
}

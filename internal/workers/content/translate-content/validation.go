package translatecontent

import (
	"bitsa-assistant/internal/common/camunda"
	"bitsa-assistant/internal/common/validation"
)

var FetchVariables = []string{"title", "body", "targetLanguage"}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"title":          {Type: "string", Description: "Title to translate"},
			"body":           {Type: "string", Description: "Body to translate"},
			"targetLanguage": camunda.LanguageProperty("Language code to translate into", false),
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"translatedTitle", "translatedBody"},
		Properties: map[string]validation.Property{
			"translatedTitle": {Type: "string"},
			"translatedBody":  {Type: "string"},
		},
		AdditionalProperties: false,
	}
}

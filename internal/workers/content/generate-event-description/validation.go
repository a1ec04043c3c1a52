package generateeventdescription

import (
	"bitsa-assistant/internal/common/camunda"
	"bitsa-assistant/internal/common/validation"
)

var FetchVariables = []string{"eventTitle", "eventType", "targetAudience", "language"}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"eventTitle":     {Type: "string", MaxLength: validation.Int(200)},
			"eventType":      {Type: "string", Description: "e.g. workshop, hackathon, talk"},
			"targetAudience": {Type: "string"},
			"language":       camunda.LanguageProperty("Language to write in; defaults to en", true),
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"eventDescription"},
		Properties: map[string]validation.Property{
			"eventDescription": {Type: "string", MinLength: validation.Int(1)},
		},
		AdditionalProperties: false,
	}
}

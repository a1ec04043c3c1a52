package generateprojectfeedback

import "bitsa-assistant/internal/common/validation"

var FetchVariables = []string{"projectTitle", "projectDescription", "techStack"}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"projectTitle":       {Type: "string", MaxLength: validation.Int(200)},
			"projectDescription": {Type: "string", MaxLength: validation.Int(10000)},
			"techStack":          {Type: "string", Description: "Comma-separated technologies"},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"feedback", "feedbackSuggestions", "feedbackRating"},
		Properties: map[string]validation.Property{
			"feedback":            {Type: "string"},
			"feedbackSuggestions": {Type: "array", Items: &validation.Property{Type: "string"}},
			"feedbackRating": {
				Type:    "number",
				Minimum: validation.Float(0),
				Maximum: validation.Float(10),
			},
		},
		AdditionalProperties: false,
	}
}

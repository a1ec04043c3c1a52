package assistantchat

import "bitsa-assistant/internal/common/validation"

// FetchVariables limits the variables activated with each job.
var FetchVariables = []string{"message", "conversationHistory"}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"message": {
				Type:        "string",
				Description: "The member's question",
				MaxLength:   validation.Int(4000),
			},
			"conversationHistory": {
				Type:        "array",
				Description: "Prior user and assistant turns, oldest first",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"role", "content"},
					Properties: map[string]validation.Property{
						"role":    {Type: "string"},
						"content": {Type: "string"},
					},
				},
			},
		},
		AdditionalProperties: true,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"response", "model"},
		Properties: map[string]validation.Property{
			"response":    {Type: "string", Description: "Grounded answer"},
			"model":       {Type: "string", Description: "Model that produced the answer"},
			"regenerated": {Type: "boolean", Description: "Whether the first reply was deflective and replaced"},
		},
		AdditionalProperties: false,
	}
}

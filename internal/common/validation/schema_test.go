package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedbackSchema = JSONSchema{
	Type: "object",
	Properties: map[string]Property{
		"feedback":    {Type: "string"},
		"suggestions": {Type: "array", Items: &Property{Type: "string"}},
		"rating":      {Type: "number", Minimum: Float(0), Maximum: Float(10)},
	},
	Required:             []string{"feedback"},
	AdditionalProperties: true,
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name        string
		input       map[string]interface{}
		valid       bool
		wantInvalid []string
	}{
		{
			name:  "valid",
			input: map[string]interface{}{"feedback": "solid", "suggestions": []interface{}{"a"}, "rating": 7.5},
			valid: true,
		},
		{
			name:        "missing required",
			input:       map[string]interface{}{"rating": 3},
			wantInvalid: []string{"feedback"},
		},
		{
			name:        "rating out of range",
			input:       map[string]interface{}{"feedback": "x", "rating": 42},
			wantInvalid: []string{"rating"},
		},
		{
			name:        "suggestion of wrong type",
			input:       map[string]interface{}{"feedback": "x", "suggestions": []interface{}{"ok", 3}},
			wantInvalid: []string{"suggestions"},
		},
		{
			name:  "extra fields allowed",
			input: map[string]interface{}{"feedback": "x", "mood": "happy"},
			valid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(tt.input, feedbackSchema)
			assert.Equal(t, tt.valid, result.Valid, result.GetErrorMessages())

			invalid := result.InvalidTopLevelFields()
			for _, f := range tt.wantInvalid {
				assert.True(t, invalid[f], "expected %s to be invalid, got %v", f, invalid)
			}
		})
	}
}

func TestValidateInput_RequiredFieldNamed(t *testing.T) {
	result := ValidateInput(nil, feedbackSchema)

	require.False(t, result.Valid)
	assert.True(t, result.HasErrors("feedback"))
	assert.Equal(t, "required", result.GetErrorsForField("feedback")[0].Code)
}

func TestValidateInput_EnumAndClosedObject(t *testing.T) {
	schema := JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"targetLanguage": {Type: "string", Enum: []string{"en", "sw"}},
		},
	}

	result := ValidateInput(map[string]interface{}{"targetLanguage": "xx", "other": true}, schema)

	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors("targetLanguage"))
	assert.Len(t, result.Errors, 2)
}

func TestValidateActivityNaming(t *testing.T) {
	assert.NoError(t, ValidateActivityNaming("assistant.chat.answer"))
	assert.Error(t, ValidateActivityNaming("assistant-chat"))
}

func TestGetSchemaFromJSON(t *testing.T) {
	schema, err := GetSchemaFromJSON(`{"type":"object","properties":{"message":{"type":"string","minLength":1}},"required":["message"]}`)
	require.NoError(t, err)
	assert.Equal(t, 1, *schema.Properties["message"].MinLength)
}

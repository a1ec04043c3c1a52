package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitsa-assistant/internal/common/validation"
)

func sampleRegistry() *ActivityRegistry {
	return &ActivityRegistry{
		Version: "1.0.0",
		Activities: []Activity{
			{
				ID:          "assistant.chat.answer",
				DisplayName: "Answer Chat Message",
				Category:    "assistant",
				TaskType:    "assistant-chat",
				InputSchema: map[string]interface{}{"type": "object"},
			},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "activity-registry.json")
	require.NoError(t, SaveRegistry(sampleRegistry(), path))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, sampleRegistry().Activities[0].ID, reg.Activities[0].ID)

	a, ok := reg.FindByTaskType("assistant-chat")
	assert.True(t, ok)
	assert.Equal(t, "Answer Chat Message", a.DisplayName)

	_, ok = reg.FindByTaskType("unknown")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	assert.Empty(t, Validate(sampleRegistry()))

	assert.Len(t, Validate(&ActivityRegistry{}), 1)

	reg := sampleRegistry()
	reg.Activities = append(reg.Activities, Activity{
		ID:       "assistant.chat.answer",
		TaskType: "assistant-chat",
	})
	reg.Activities = append(reg.Activities, Activity{
		ID:          "Bad-Name",
		DisplayName: "x",
		Category:    "x",
		TaskType:    "bad",
		InputSchema: map[string]interface{}{},
	})

	problems := Validate(reg)
	var msgs []string
	for _, p := range problems {
		msgs = append(msgs, p.Error())
	}
	assert.Contains(t, msgs, "duplicate activity ID: assistant.chat.answer")
	assert.Contains(t, msgs, "activity assistant.chat.answer: task type assistant-chat registered twice")
	assert.Contains(t, msgs, "activity assistant.chat.answer missing required field: DisplayName")
	assert.Contains(t, msgs, "activity assistant.chat.answer missing input schema")
	assert.Contains(t, msgs, "activity Bad-Name: activity ID must follow format: domain.subdomain.action (e.g., assistant.chat.answer)")
}

func TestSchemaMap(t *testing.T) {
	m, err := SchemaMap(validation.JSONSchema{
		Type:       "object",
		Properties: map[string]validation.Property{"query": {Type: "string"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "object", m["type"])
	assert.Equal(t, false, m["additionalProperties"])
}

package workers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitsa-assistant/internal/common/config"
	"bitsa-assistant/pkg/registry"
)

func TestDefinitions(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, 6)

	seen := map[string]bool{}
	for _, d := range defs {
		assert.False(t, seen[d.TaskType], "duplicate %s", d.TaskType)
		seen[d.TaskType] = true
		assert.NotEmpty(t, d.FetchVariables, d.TaskType)
		assert.NotEmpty(t, d.OutputSchema.Required, d.TaskType)
	}
}

func TestRegistry(t *testing.T) {
	cfg := &config.Config{Workers: map[string]config.WorkerConfig{
		"assistant-chat": {Enabled: true, Timeout: 90000, MaxRetries: 1},
	}}

	reg, err := Registry(cfg, "1.2.0")
	require.NoError(t, err)
	assert.Empty(t, registry.Validate(reg))

	chat, ok := reg.FindByTaskType("assistant-chat")
	require.True(t, ok)
	assert.Equal(t, "1m30s", chat.Timeout)
	assert.Equal(t, 1, chat.Retries)
	assert.Contains(t, chat.ErrorCodes, "GENERATION_QUOTA_EXCEEDED")
	assert.Equal(t, "object", chat.InputSchema["type"])

	translate, ok := reg.FindByTaskType("translate-content")
	require.True(t, ok)
	assert.Equal(t, "30s", translate.Timeout)
	assert.Contains(t, translate.ErrorCodes, "INVALID_LANGUAGE")
}

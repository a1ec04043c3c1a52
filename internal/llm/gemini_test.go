package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/models"
)

func TestToGenaiContents(t *testing.T) {
	system, contents := toGenaiContents([]models.ConversationTurn{
		{Role: models.RoleSystem, Content: "use only the context"},
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "hello"},
		{Role: models.RoleUser, Content: "what events?"},
	})

	assert.Equal(t, "use only the context", system)
	require.Len(t, contents, 3)
	assert.Equal(t, string(genai.RoleUser), contents[0].Role)
	assert.Equal(t, string(genai.RoleModel), contents[1].Role)
	assert.Equal(t, "what events?", contents[2].Parts[0].Text)
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), GeminiConfig{}, logger.NewNoOpLogger())
	assert.Error(t, err)
}

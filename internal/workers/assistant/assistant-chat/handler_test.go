package assistantchat

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitsa-assistant/internal/assistant/generator"
	"bitsa-assistant/internal/assistant/guard"
	"bitsa-assistant/internal/assistant/orchestrator"
	"bitsa-assistant/internal/assistant/retriever"
	"bitsa-assistant/internal/common/camunda"
	"bitsa-assistant/internal/common/camunda/camundatest"
	"bitsa-assistant/internal/common/config"
	"bitsa-assistant/internal/common/errors"
	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/common/validation"
	"bitsa-assistant/internal/llm"
	"bitsa-assistant/internal/llm/llmtest"
	"bitsa-assistant/internal/models"
	"bitsa-assistant/internal/store/memstore"
)

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "assistant-process",
		ElementId:          "Activity_AssistantChat",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func newHandler(t *testing.T, stub *llmtest.Stub) *Handler {
	log := logger.NewTestLogger(t)
	store, err := memstore.Load("../../../store/memstore/testdata/club.yaml")
	require.NoError(t, err)

	o := orchestrator.New(
		retriever.New(store, retriever.DefaultConfig(), log),
		stub,
		guard.New(log),
		generator.New(stub, log),
		orchestrator.DefaultConfig(),
		log,
	)
	return NewHandler(DefaultConfig(), o, log)
}

func TestHandler_Execute(t *testing.T) {
	stub := llmtest.NewStub("The next event is the Go workshop.")
	h := newHandler(t, stub)

	out, err := h.Execute(context.Background(), &Input{
		Message: "What events are coming up?",
		ConversationHistory: []models.ConversationTurn{
			{Role: models.RoleUser, Content: "Hi"},
			{Role: models.RoleAssistant, Content: "Hello! How can I help?"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "The next event is the Go workshop.", out.Response)
	assert.Equal(t, "stub-model", out.Model)
	assert.False(t, out.Regenerated)
	assert.Len(t, stub.LastCall().Turns, 4)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    *Input
		stub     *llmtest.Stub
		wantCode errors.ErrorCode
	}{
		{
			name:     "blank message",
			input:    &Input{Message: "   "},
			stub:     llmtest.NewStub("unused"),
			wantCode: errors.ErrCodeInvalidParameters,
		},
		{
			name:     "provider failure",
			input:    &Input{Message: "Who leads the club?"},
			stub:     llmtest.NewStub().WithError(llm.ErrGenerationFailed),
			wantCode: errors.ErrCodeGenerationFailed,
		},
		{
			name:     "quota exhausted",
			input:    &Input{Message: "Who leads the club?"},
			stub:     llmtest.NewStub().WithError(llm.ErrQuotaExceeded),
			wantCode: errors.ErrCodeGenerationQuota,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newHandler(t, tt.stub).Execute(context.Background(), tt.input)

			require.Error(t, err)
			stdErr := errors.FromError(err)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			if tt.wantCode == errors.ErrCodeInvalidParameters {
				assert.Equal(t, "Message is required", stdErr.Message)
			}
		})
	}
}

func TestDecodeInput(t *testing.T) {
	var input Input
	err := camunda.DecodeVariables(createMockJob(1, map[string]interface{}{
		"message": "Any hackathons?",
		"conversationHistory": []map[string]interface{}{
			{"role": "user", "content": "Hi"},
		},
		"unrelatedProcessVar": true,
	}), GetInputSchema(), &input)

	require.NoError(t, err)
	assert.Equal(t, "Any hackathons?", input.Message)
	require.Len(t, input.ConversationHistory, 1)
	assert.Equal(t, models.RoleUser, input.ConversationHistory[0].Role)

	err = camunda.DecodeVariables(createMockJob(2, map[string]interface{}{
		"message":             "x",
		"conversationHistory": "not a list",
	}), GetInputSchema(), &input)
	assert.Equal(t, errors.ErrCodeInvalidParameters, errors.FromError(err).Code)
}

func TestOutputMatchesSchema(t *testing.T) {
	out := &Output{Response: "Hi", Model: "stub-model", Regenerated: true}
	result := validation.ValidateInput(out.Variables(), GetOutputSchema())
	assert.True(t, result.Valid, result.GetErrorMessages())
}

func TestConfigFrom(t *testing.T) {
	assert.Equal(t, DefaultConfig().Timeout, ConfigFrom(config.WorkerConfig{}).Timeout)
	assert.Equal(t, int64(5000), ConfigFrom(config.WorkerConfig{Timeout: 5000}).Timeout.Milliseconds())
}

func TestHandler_Handle_CompletesAfterRegeneration(t *testing.T) {
	client := camundatest.NewJobClient()
	stub := llmtest.NewStub(
		"For the most accurate information, please check the website.",
		"The Go workshop is the next event.",
	)

	newHandler(t, stub).Handle(client, camundatest.NewJob(81, TaskType, 3, map[string]interface{}{
		"message": "What events are coming up?",
		"conversationHistory": []map[string]interface{}{
			{"role": "user", "content": "Hi"},
		},
	}))

	completed := client.Gateway.Completed()
	require.Len(t, completed, 1)
	assert.NoError(t, completed[0].CtxErr)
	vars := camundatest.Variables(completed[0])
	assert.Equal(t, "The Go workshop is the next event.", vars["response"])
	assert.Equal(t, "stub-model", vars["model"])
	assert.Equal(t, true, vars["regenerated"])
	assert.Equal(t, 2, stub.CallCount())
}

func TestHandler_Handle_BlankMessageThrows(t *testing.T) {
	client := camundatest.NewJobClient()

	newHandler(t, llmtest.NewStub("unused")).Handle(client, camundatest.NewJob(82, TaskType, 3, map[string]interface{}{"message": ""}))

	thrown := client.Gateway.Thrown()
	require.Len(t, thrown, 1)
	assert.Equal(t, "INVALID_PARAMETERS", thrown[0].ErrorCode)
	assert.Empty(t, client.Gateway.Completed())
}

func TestHandler_Handle_TimeoutFailsWithRetries(t *testing.T) {
	client := camundatest.NewJobClient()
	h := newHandler(t, llmtest.NewBlockingStub())
	h.config = &Config{Timeout: 50 * time.Millisecond}

	h.Handle(client, camundatest.NewJob(83, TaskType, 3, map[string]interface{}{"message": "Who leads the club?"}))

	failed := client.Gateway.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, int32(1), failed[0].Retries)
	assert.NoError(t, failed[0].CtxErr)
	assert.Equal(t, "GENERATION_TIMEOUT", camundatest.Variables(failed[0])["errorCode"])
	assert.Empty(t, client.Gateway.Thrown())
}

func TestDefaultConfig_CoversTwoCompletionCalls(t *testing.T) {
	budget := 5*time.Second + 2*60*time.Second
	assert.Greater(t, DefaultConfig().Timeout, budget)
}

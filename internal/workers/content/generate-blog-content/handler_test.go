package generateblogcontent

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"bitsa-assistant/internal/assistant/generator"
	"bitsa-assistant/internal/audit"
	"bitsa-assistant/internal/common/camunda"
	"bitsa-assistant/internal/common/camunda/camundatest"
	"bitsa-assistant/internal/common/errors"
	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/common/validation"
	"bitsa-assistant/internal/llm"
	"bitsa-assistant/internal/llm/llmtest"
)

type captureSink struct {
	events []audit.Event
}

func (c *captureSink) Record(_ context.Context, e audit.Event) error {
	c.events = append(c.events, e)
	return nil
}

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:           key,
		Type:          TaskType,
		CustomHeaders: "{}",
		Retries:       3,
		Variables:     string(variablesJSON),
	}}
}

func newHandler(t *testing.T, stub *llmtest.Stub, sink audit.Sink) *Handler {
	log := logger.NewTestLogger(t)
	return NewHandler(DefaultConfig(), generator.New(stub, log), audit.NewRecorder(sink, log), log)
}

func TestHandler_Execute(t *testing.T) {
	stub := llmtest.NewStub(`{"title":"Hackathon 2026: What We Built!","content":"## Recap\nTwelve teams."}`)
	sink := &captureSink{}
	h := newHandler(t, stub, sink)

	out, err := h.Execute(context.Background(), &Input{Topic: "hackathon recap", Category: "Events"})

	require.NoError(t, err)
	assert.Equal(t, "Hackathon 2026: What We Built!", out.Title)
	assert.Equal(t, "hackathon-2026-what-we-built", out.Slug)

	call := stub.LastCall()
	assert.Equal(t, 0.8, call.Options.Temperature)
	assert.Equal(t, 2048, call.Options.MaxTokens)
	assert.True(t, call.Options.JSONMode)

	require.Len(t, sink.events, 1)
	ev := sink.events[0]
	assert.Equal(t, audit.ActionCreate, ev.Action)
	assert.Equal(t, "Generated blog content: Hackathon 2026: What We Built!", ev.Description)
	assert.Equal(t, "en", ev.Metadata["language"])

	result := validation.ValidateInput(out.Variables(), GetOutputSchema())
	assert.True(t, result.Valid, result.GetErrorMessages())
}

func TestHandler_Execute_MissingCategory(t *testing.T) {
	stub := llmtest.NewStub(`{}`)
	sink := &captureSink{}

	_, err := newHandler(t, stub, sink).Execute(context.Background(), &Input{Topic: "hackathon"})

	stdErr := errors.FromError(err)
	assert.Equal(t, errors.ErrCodeInvalidParameters, stdErr.Code)
	assert.Equal(t, "Topic and category are required", stdErr.Message)
	assert.Zero(t, stub.CallCount())
	assert.Empty(t, sink.events)
}

func TestHandler_Execute_GenerationFailureSkipsAudit(t *testing.T) {
	sink := &captureSink{}

	_, err := newHandler(t, llmtest.NewStub().WithError(llm.ErrGenerationTimeout), sink).
		Execute(context.Background(), &Input{Topic: "a", Category: "b"})

	assert.Equal(t, errors.ErrCodeGenerationTimeout, errors.FromError(err).Code)
	assert.Empty(t, sink.events)
}

func TestHandler_Execute_AuditFailureDoesNotFail(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := logger.NewZapAdapter(zap.New(core))
	h := NewHandler(DefaultConfig(),
		generator.New(llmtest.NewStub(`{"title":"T","content":"C"}`), log),
		audit.NewRecorder(failingSink{}, log), log)

	out, err := h.Execute(context.Background(), &Input{Topic: "a", Category: "b"})

	require.NoError(t, err)
	assert.Equal(t, "t", out.Slug)
	assert.Equal(t, 1, logs.FilterMessage("Audit event not recorded").Len())
}

type failingSink struct{}

func (failingSink) Record(context.Context, audit.Event) error { return assert.AnError }

func TestDecodeInput_Language(t *testing.T) {
	var input Input

	err := camunda.DecodeVariables(createMockJob(1, map[string]interface{}{
		"topic": "x", "category": "y", "language": "",
	}), GetInputSchema(), &input)
	require.NoError(t, err)

	err = camunda.DecodeVariables(createMockJob(2, map[string]interface{}{
		"topic": "x", "category": "y", "language": "klingon",
	}), GetInputSchema(), &input)
	stdErr := errors.FromError(err)
	assert.Equal(t, errors.ErrCodeInvalidLanguage, stdErr.Code)
	assert.Equal(t, "Invalid language. Must be one of: en, sw, fr, id, de, es, it, pt, ja", stdErr.Message)
}

func TestDecodeInput_LanguageIsCaseInsensitive(t *testing.T) {
	var input Input

	err := camunda.DecodeVariables(createMockJob(3, map[string]interface{}{
		"topic": "x", "category": "y", "language": " SW ",
	}), GetInputSchema(), &input)

	require.NoError(t, err)
	assert.Equal(t, "sw", input.Language)
}

func TestHandler_Handle(t *testing.T) {
	tests := []struct {
		name      string
		stub      *llmtest.Stub
		timeout   time.Duration
		variables map[string]interface{}
		assertJob func(t *testing.T, gw *camundatest.Gateway)
	}{
		{
			name:      "completes with draft",
			stub:      llmtest.NewStub(`{"title":"Hackathon 2026: What We Built!","content":"## Recap"}`),
			variables: map[string]interface{}{"topic": "hackathon recap", "category": "Events", "tone": "casual"},
			assertJob: func(t *testing.T, gw *camundatest.Gateway) {
				require.Len(t, gw.Completed(), 1)
				sent := gw.Completed()[0]
				assert.NoError(t, sent.CtxErr)
				vars := camundatest.Variables(sent)
				assert.Equal(t, "Hackathon 2026: What We Built!", vars["blogTitle"])
				assert.Equal(t, "## Recap", vars["blogContent"])
				assert.Equal(t, "hackathon-2026-what-we-built", vars["blogSlug"])
				assert.Empty(t, gw.Failed())
			},
		},
		{
			name:      "unsupported language is thrown",
			stub:      llmtest.NewStub("unused"),
			variables: map[string]interface{}{"topic": "a", "category": "b", "language": "klingon"},
			assertJob: func(t *testing.T, gw *camundatest.Gateway) {
				require.Len(t, gw.Thrown(), 1)
				assert.Equal(t, "INVALID_LANGUAGE", gw.Thrown()[0].ErrorCode)
				assert.Empty(t, gw.Completed())
				assert.Empty(t, gw.Failed())
			},
		},
		{
			name:      "missing category is thrown",
			stub:      llmtest.NewStub("unused"),
			variables: map[string]interface{}{"topic": "a"},
			assertJob: func(t *testing.T, gw *camundatest.Gateway) {
				require.Len(t, gw.Thrown(), 1)
				assert.Equal(t, "INVALID_PARAMETERS", gw.Thrown()[0].ErrorCode)
			},
		},
		{
			name:      "generation timeout is failed for retry",
			stub:      llmtest.NewBlockingStub(),
			timeout:   50 * time.Millisecond,
			variables: map[string]interface{}{"topic": "a", "category": "b"},
			assertJob: func(t *testing.T, gw *camundatest.Gateway) {
				require.Len(t, gw.Failed(), 1)
				sent := gw.Failed()[0]
				assert.Equal(t, int32(1), sent.Retries)
				assert.NoError(t, sent.CtxErr)
				assert.Equal(t, "GENERATION_TIMEOUT", camundatest.Variables(sent)["errorCode"])
				assert.Empty(t, gw.Thrown())
				assert.Empty(t, gw.Completed())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := camundatest.NewJobClient()
			h := newHandler(t, tt.stub, &captureSink{})
			if tt.timeout > 0 {
				h.config = &Config{Timeout: tt.timeout}
			}

			h.Handle(client, camundatest.NewJob(7, TaskType, 3, tt.variables))

			tt.assertJob(t, client.Gateway)
		})
	}
}

package camunda

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitsa-assistant/internal/common/camunda/camundatest"
	"bitsa-assistant/internal/common/errors"
	"bitsa-assistant/internal/common/validation"
	"bitsa-assistant/internal/models"
)

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               "translate-content",
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "test-process",
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

type translateVars struct {
	Title          string `json:"title"`
	Body           string `json:"body"`
	TargetLanguage string `json:"targetLanguage"`
}

var translateSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"title":          {Type: "string"},
		"body":           {Type: "string"},
		"targetLanguage": LanguageProperty("Target language", false),
	},
	AdditionalProperties: true,
}

func TestDecodeVariables(t *testing.T) {
	tests := []struct {
		name     string
		vars     map[string]interface{}
		wantCode errors.ErrorCode
		wantLang bool
	}{
		{
			name: "valid",
			vars: map[string]interface{}{"title": "Hi", "body": "Hello", "targetLanguage": "sw"},
		},
		{
			name: "language is normalized",
			vars: map[string]interface{}{"title": "Hi", "body": "Hello", "targetLanguage": " SW"},
		},
		{
			name:     "unsupported language",
			vars:     map[string]interface{}{"title": "Hi", "body": "Hello", "targetLanguage": "xx"},
			wantLang: true,
		},
		{
			name:     "wrong type",
			vars:     map[string]interface{}{"title": 42, "body": "Hello", "targetLanguage": "en"},
			wantCode: errors.ErrCodeInvalidParameters,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out translateVars
			err := DecodeVariables(createMockJob(1, tt.vars), translateSchema, &out)

			switch {
			case tt.wantLang:
				assert.True(t, stderrors.Is(err, models.ErrUnsupportedLanguage))
				assert.Equal(t, errors.ErrCodeInvalidLanguage, errors.FromError(err).Code)
			case tt.wantCode != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.FromError(err).Code)
			default:
				require.NoError(t, err)
				assert.Equal(t, "sw", out.TargetLanguage)
				assert.Equal(t, "Hi", out.Title)
			}
		})
	}
}

func TestLanguageProperty(t *testing.T) {
	required := LanguageProperty("lang", false)
	optional := LanguageProperty("lang", true)

	assert.Equal(t, models.SupportedLanguages, required.Enum)
	assert.Contains(t, optional.Enum, "")
	assert.Len(t, optional.Enum, len(models.SupportedLanguages)+1)
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(stderrors.New("rpc error: code = Unavailable desc = connection refused")))
	assert.True(t, isRetryableZeebeError(stderrors.New("context deadline exceeded")))
	assert.False(t, isRetryableZeebeError(stderrors.New("NOT_FOUND: job 12 not found")))
}

func TestMapZeebeError(t *testing.T) {
	tests := []struct {
		msg  string
		want errors.ErrorCode
	}{
		{"deadline exceeded", errors.ErrCodeTimeout},
		{"job not found", errors.ErrCodeNotFound},
		{"permission denied", errors.ErrCodeAuthentication},
		{"connection refused", errors.ErrCodeExternalService},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := mapZeebeError(stderrors.New(tt.msg), "complete", 2)
			assert.Equal(t, tt.want, errors.FromError(err).Code)
		})
	}
}

func TestCompleteJob_AfterWorkDeadline(t *testing.T) {
	client := camundatest.NewJobClient()
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	err := CompleteJob(ctx, client, createMockJob(9, nil), map[string]interface{}{"response": "done"})

	require.NoError(t, err)
	completed := client.Gateway.Completed()
	require.Len(t, completed, 1)
	assert.NoError(t, completed[0].CtxErr)
	assert.Equal(t, "done", camundatest.Variables(completed[0])["response"])
}

package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitsa-assistant/internal/common/camunda/camundatest"
	"bitsa-assistant/internal/llm"
	"bitsa-assistant/internal/models"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  ErrorCode
		retryable bool
	}{
		{"unsupported language", models.ErrUnsupportedLanguage, ErrCodeInvalidLanguage, false},
		{"invalid parameters", fmt.Errorf("%w: Message is required", models.ErrInvalidParameters), ErrCodeInvalidParameters, false},
		{"quota", fmt.Errorf("groq: %w", llm.ErrQuotaExceeded), ErrCodeGenerationQuota, true},
		{"timeout", llm.ErrGenerationTimeout, ErrCodeGenerationTimeout, true},
		{"deadline", context.DeadlineExceeded, ErrCodeGenerationTimeout, true},
		{"empty completion", llm.ErrEmptyCompletion, ErrCodeGenerationFailed, true},
		{"store", fmt.Errorf("ping: %w", models.ErrStoreUnavailable), ErrCodeRecordStoreUnavailable, true},
		{"unknown", stderrors.New("boom"), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.retryable, got.Retryable)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestFromError_KeepsUserMessage(t *testing.T) {
	err := FromError(fmt.Errorf("%w: Topic and category are required", models.ErrInvalidParameters))
	assert.Equal(t, "Topic and category are required", err.Message)

	lang := FromError(models.ErrUnsupportedLanguage)
	assert.Equal(t, "Invalid language. Must be one of: en, sw, fr, id, de, es, it, pt, ja", lang.Message)
}

func TestFromError_PassesStandardErrorThrough(t *testing.T) {
	orig := NewMalformedModelOutputError("blog", stderrors.New("bad json"))
	assert.Same(t, orig, FromError(fmt.Errorf("wrapped: %w", orig)))
	assert.Nil(t, FromError(nil))
}

func TestGetRetryCount(t *testing.T) {
	assert.Equal(t, 1, GetRetryCount(ErrCodeGenerationFailed))
	assert.Equal(t, 1, GetRetryCount(ErrCodeGenerationTimeout))
	assert.Equal(t, 2, GetRetryCount(ErrCodeGenerationQuota))
	assert.Equal(t, 3, GetRetryCount(ErrCodeRecordStoreUnavailable))
	assert.Equal(t, 0, GetRetryCount(ErrCodeInvalidLanguage))
	assert.Equal(t, 0, GetRetryCount(ErrCodeMalformedModelOutput))
}

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(NewMalformedModelOutputError("feedback", stderrors.New("x")))

	assert.Equal(t, "MALFORMED_MODEL_OUTPUT", bpmn.Code)
	assert.Equal(t, 0, bpmn.Retries)
	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "feedback", vars["operation"])
	assert.Equal(t, "MALFORMED_MODEL_OUTPUT", vars["originalErrorCode"])
}

func TestNextRetries(t *testing.T) {
	assert.Equal(t, 1, nextRetries(3, 1))
	assert.Equal(t, 0, nextRetries(1, 3))
	assert.Equal(t, 2, nextRetries(3, 3))
	assert.Equal(t, 0, nextRetries(0, 3))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeGenerationQuota))
	assert.Equal(t, "RETRIEVAL", GetErrorCategory(ErrCodeRecordStoreUnavailable))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidLanguage))
	assert.Equal(t, "AUDIT", GetErrorCategory(ErrCodeAuditPublishFailed))
}

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Error(msg string, _ map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func TestHandleJobError_ReportsAfterWorkDeadline(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantFailed bool
		wantCode   string
	}{
		{"timeout is failed with one retry", context.DeadlineExceeded, true, "GENERATION_TIMEOUT"},
		{"invalid language is thrown", models.ErrUnsupportedLanguage, false, "INVALID_LANGUAGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := camundatest.NewJobClient()
			log := &recordingLogger{}
			ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
			defer cancel()
			<-ctx.Done()

			NewErrorHandler(log).HandleJobError(ctx, client, camundatest.NewJob(5, "translate-content", 3, nil), tt.err)

			assert.NotContains(t, log.messages, "Failed to report job outcome")
			if tt.wantFailed {
				require.Len(t, client.Gateway.Failed(), 1)
				sent := client.Gateway.Failed()[0]
				assert.NoError(t, sent.CtxErr)
				assert.Equal(t, int32(1), sent.Retries)
				assert.Equal(t, tt.wantCode, camundatest.Variables(sent)["errorCode"])
				assert.Empty(t, client.Gateway.Thrown())
				return
			}
			require.Len(t, client.Gateway.Thrown(), 1)
			sent := client.Gateway.Thrown()[0]
			assert.NoError(t, sent.CtxErr)
			assert.Equal(t, tt.wantCode, sent.ErrorCode)
			assert.Empty(t, client.Gateway.Failed())
		})
	}
}

package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitsa-assistant/internal/llm"
	"bitsa-assistant/internal/llm/llmtest"
)

func TestInstrumented_Complete(t *testing.T) {
	tests := []struct {
		name    string
		stub    *llmtest.Stub
		want    string
		wantErr error
	}{
		{"success", llmtest.NewStub("answer"), "answer", nil},
		{"blank reply is a failure", llmtest.NewStub("  \n "), "", llm.ErrGenerationFailed},
		{"provider error", (&llmtest.Stub{}).WithError(llm.ErrGenerationTimeout), "", llm.ErrGenerationTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := llm.NewInstrumented(tt.stub, "stub")

			text, err := inst.Complete(context.Background(), nil, llm.Options{JSONMode: true})

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Empty(t, text)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestEmptyCompletionWrapsGenerationFailed(t *testing.T) {
	assert.ErrorIs(t, llm.ErrEmptyCompletion, llm.ErrGenerationFailed)
}

package assistantchat

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"bitsa-assistant/internal/common/camunda"
	"bitsa-assistant/internal/common/errors"
	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/common/metrics"
	"bitsa-assistant/internal/models"
)

const TaskType = "assistant-chat"

// Assistant answers one chat turn from retrieved club records.
type Assistant interface {
	Answer(ctx context.Context, message string, history []models.ConversationTurn) (models.AssistantAnswer, error)
}

type Handler struct {
	config    *Config
	assistant Assistant
	errors    *errors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, assistant Assistant, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		assistant: assistant,
		errors:    errors.NewErrorHandler(log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := camunda.DecodeVariables(job, GetInputSchema(), &input); err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output.Variables()); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	answer, err := h.assistant.Answer(ctx, input.Message, input.ConversationHistory)
	if err != nil {
		return nil, err
	}
	return &Output{
		Response:    answer.Text,
		Model:       answer.Model,
		Regenerated: answer.Regenerated,
	}, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.FromError(err).Code)).Inc()
	h.errors.HandleJobError(ctx, client, job, err)
}

package generateprojectfeedback

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"bitsa-assistant/internal/assistant/generator"
	"bitsa-assistant/internal/audit"
	"bitsa-assistant/internal/common/camunda"
	"bitsa-assistant/internal/common/errors"
	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/common/metrics"
	"bitsa-assistant/internal/models"
)

const TaskType = "generate-project-feedback"

type Reviewer interface {
	ProjectFeedback(ctx context.Context, req generator.FeedbackRequest) (models.ProjectFeedback, error)
}

type Handler struct {
	config   *Config
	reviewer Reviewer
	audit    *audit.Recorder
	errors   *errors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, reviewer Reviewer, recorder *audit.Recorder, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		reviewer: reviewer,
		audit:    recorder,
		errors:   errors.NewErrorHandler(log),
		logger:   log,
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
	fb, err := h.reviewer.ProjectFeedback(ctx, generator.FeedbackRequest{
		Title:       input.ProjectTitle,
		Description: input.ProjectDescription,
		TechStack:   input.TechStack,
	})
	if err != nil {
		return nil, err
	}

	h.audit.Record(ctx, audit.NewEvent(audit.ActionOther, "Generated feedback for project: "+input.ProjectTitle, map[string]interface{}{
		"projectTitle": input.ProjectTitle,
	}))

	return &Output{Feedback: fb.Feedback, Suggestions: fb.Suggestions, Rating: fb.Rating}, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.FromError(err).Code)).Inc()
	h.errors.HandleJobError(ctx, client, job, err)
}

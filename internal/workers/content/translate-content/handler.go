package translatecontent

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

const TaskType = "translate-content"

type Translator interface {
	Translate(ctx context.Context, req generator.TranslateRequest) (models.Translation, error)
}

type Handler struct {
	config     *Config
	translator Translator
	audit      *audit.Recorder
	errors     *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, translator Translator, recorder *audit.Recorder, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		translator: translator,
		audit:      recorder,
		errors:     errors.NewErrorHandler(log),
		logger:     log,
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

// Execute rejects unsupported target languages before any completion call.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	language := models.NormalizeLanguage(input.TargetLanguage)
	req := generator.TranslateRequest{
		Title:          input.Title,
		Body:           input.Body,
		TargetLanguage: language,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !models.IsSupportedLanguage(language) {
		return nil, errors.NewInvalidLanguageError()
	}

	translation, err := h.translator.Translate(ctx, req)
	if err != nil {
		return nil, err
	}

	h.audit.Record(ctx, audit.NewEvent(audit.ActionOther, "Translated content to "+language, map[string]interface{}{
		"targetLanguage": language,
		"originalTitle":  input.Title,
	}))

	return &Output{Title: translation.Title, Body: translation.Body}, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.FromError(err).Code)).Inc()
	h.errors.HandleJobError(ctx, client, job, err)
}

// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"bitsa-assistant/internal/common/config"
	"bitsa-assistant/internal/common/errors"
	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/common/observability"
	"bitsa-assistant/internal/common/validation"
	"bitsa-assistant/internal/models"
)

// JobHandler is implemented by every task-type handler.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// StartWorker opens a job worker for taskType. Only the named variables are
// fetched so unrelated process state never reaches schema validation.
func StartWorker(
	client zbc.Client,
	taskType string,
	wcfg config.WorkerConfig,
	handler JobHandler,
	fetchVariables []string,
	obs *observability.Observability,
	log logger.Logger,
) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	builder := client.NewJobWorker().
		JobType(taskType).
		Handler(func(jc worker.JobClient, job entities.Job) {
			start := time.Now()
			handler.Handle(jc, job)
			obs.RecordJobProcessed(context.Background(), taskType)
			obs.RecordJobDuration(context.Background(), time.Since(start), taskType)
		}).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Name(taskType + "-worker")
	if len(fetchVariables) > 0 {
		builder = builder.FetchVariables(fetchVariables...)
	}
	jobWorker := builder.Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jobWorker
}

// DecodeVariables validates the job variables against schema and decodes them
// into out. Language codes are normalized first. An enum violation on a
// language field becomes models.ErrUnsupportedLanguage; anything else is
// INVALID_PARAMETERS.
func DecodeVariables(job entities.Job, schema validation.JSONSchema, out interface{}) error {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return errors.NewInvalidParametersError("Job variables are not a JSON object")
	}

	for field, value := range variables {
		if code, ok := value.(string); ok && isLanguageField(field) {
			variables[field] = models.NormalizeLanguage(code)
		}
	}

	result := validation.ValidateInput(variables, schema)
	if !result.Valid {
		for _, ve := range result.Errors {
			if ve.Code == "enum" && isLanguageField(ve.Field) {
				return fmt.Errorf("%w: %s", models.ErrUnsupportedLanguage, ve.Field)
			}
		}
		return errors.NewInvalidParametersError(strings.Join(result.GetErrorMessages(), "; "))
	}

	raw, err := json.Marshal(variables)
	if err != nil {
		return errors.NewInvalidParametersError(err.Error())
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.NewInvalidParametersError(err.Error())
	}
	return nil
}

func isLanguageField(field string) bool {
	return field == "language" || field == "targetLanguage"
}

// LanguageProperty is the schema for a language code. Optional fields also
// accept the empty string, which means the default language.
func LanguageProperty(description string, optional bool) validation.Property {
	enum := append([]string(nil), models.SupportedLanguages...)
	if optional {
		enum = append(enum, "")
	}
	return validation.Property{
		Type:        "string",
		Description: description,
		Enum:        enum,
	}
}

// CompleteJob completes job with variables. The command is sent on a context
// detached from ctx's deadline.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, variables map[string]interface{}) error {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromMap(variables)
	if err != nil {
		return fmt.Errorf("build complete command: %w", err)
	}
	ctx, cancel := errors.CommandContext(ctx)
	defer cancel()
	if _, err := request.Send(ctx); err != nil {
		return fmt.Errorf("complete job %d: %w", job.GetKey(), err)
	}
	return nil
}

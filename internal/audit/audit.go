// Package audit records generation activity. The sink is an external
// collaborator; publishing failures are logged and never fail the caller.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bitsa-assistant/internal/common/logger"
)

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionOther  Action = "OTHER"
)

const ResourceAI = "AI"

type Event struct {
	ID           string                 `json:"id"`
	Action       Action                 `json:"action"`
	Description  string                 `json:"actionDescription"`
	ResourceType string                 `json:"resourceType"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	Success      bool                   `json:"success"`
	Timestamp    time.Time              `json:"timestamp"`
}

func NewEvent(action Action, description string, metadata map[string]interface{}) Event {
	return Event{
		ID:           uuid.NewString(),
		Action:       action,
		Description:  description,
		ResourceType: ResourceAI,
		Metadata:     metadata,
		Success:      true,
		Timestamp:    time.Now().UTC(),
	}
}

type Sink interface {
	Record(ctx context.Context, event Event) error
}

// Recorder wraps a Sink so callers can fire and forget.
type Recorder struct {
	sink   Sink
	logger logger.Logger
}

func NewRecorder(sink Sink, log logger.Logger) *Recorder {
	return &Recorder{sink: sink, logger: log}
}

func (r *Recorder) Record(ctx context.Context, event Event) {
	if r == nil || r.sink == nil {
		return
	}
	if err := r.sink.Record(ctx, event); err != nil {
		r.logger.Warn("Audit event not recorded", map[string]interface{}{
			"errorCode": "AUDIT_PUBLISH_FAILED",
			"eventId":   event.ID,
			"action":    string(event.Action),
			"error":     err.Error(),
		})
	}
}

// LogSink writes events to the structured log only.
type LogSink struct {
	logger logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{logger: log}
}

func (s *LogSink) Record(_ context.Context, event Event) error {
	s.logger.Info("Audit event", map[string]interface{}{
		"eventId":      event.ID,
		"action":       string(event.Action),
		"description":  event.Description,
		"resourceType": event.ResourceType,
		"metadata":     event.Metadata,
	})
	return nil
}

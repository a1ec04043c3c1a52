package generator

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bitsa-assistant/internal/models"
)

const (
	ToneProfessional = "professional"
	ToneCasual       = "casual"
	ToneAcademic     = "academic"
)

var tones = []interface{}{ToneProfessional, ToneCasual, ToneAcademic}

func invalid(message string) error {
	return fmt.Errorf("%w: %s", models.ErrInvalidParameters, message)
}

type BlogRequest struct {
	Topic    string `json:"topic"`
	Category string `json:"category"`
	Language string `json:"language"`
	Tone     string `json:"tone"`
}

func (r *BlogRequest) normalize() {
	r.Topic = strings.TrimSpace(r.Topic)
	r.Category = strings.TrimSpace(r.Category)
	r.Language = models.NormalizeLanguage(r.Language)
	r.Tone = strings.ToLower(strings.TrimSpace(r.Tone))
	if r.Language == "" {
		r.Language = models.DefaultLanguage
	}
	if r.Tone == "" {
		r.Tone = ToneProfessional
	}
}

func (r BlogRequest) Validate() error {
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Topic, validation.Required),
		validation.Field(&r.Category, validation.Required),
	); err != nil {
		return invalid("Topic and category are required")
	}
	if err := validation.Validate(r.Tone, validation.In(tones...)); err != nil {
		return invalid("Tone must be one of: professional, casual, academic")
	}
	return nil
}

type TranslateRequest struct {
	Title          string `json:"title"`
	Body           string `json:"body"`
	TargetLanguage string `json:"targetLanguage"`
}

func (r *TranslateRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Body = strings.TrimSpace(r.Body)
	r.TargetLanguage = models.NormalizeLanguage(r.TargetLanguage)
}

func (r TranslateRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Body, validation.Required),
		validation.Field(&r.TargetLanguage, validation.Required),
	)
	if err != nil {
		return invalid("Title, body, and targetLanguage are required")
	}
	return nil
}

type FeedbackRequest struct {
	Title       string `json:"projectTitle"`
	Description string `json:"projectDescription"`
	TechStack   string `json:"techStack,omitempty"`
}

func (r *FeedbackRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.TechStack = strings.TrimSpace(r.TechStack)
}

func (r FeedbackRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Description, validation.Required),
	)
	if err != nil {
		return invalid("Project title and description are required")
	}
	return nil
}

type EventRequest struct {
	Title    string `json:"eventTitle"`
	Type     string `json:"eventType"`
	Audience string `json:"targetAudience"`
	Language string `json:"language"`
}

func (r *EventRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Type = strings.TrimSpace(r.Type)
	r.Audience = strings.TrimSpace(r.Audience)
	r.Language = models.NormalizeLanguage(r.Language)
	if r.Language == "" {
		r.Language = models.DefaultLanguage
	}
}

func (r EventRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Type, validation.Required),
		validation.Field(&r.Audience, validation.Required),
	)
	if err != nil {
		return invalid("Event title, type, and target audience are required")
	}
	return nil
}

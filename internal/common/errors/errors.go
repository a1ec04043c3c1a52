// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"bitsa-assistant/internal/llm"
	"bitsa-assistant/internal/models"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeRetrievalPartialFailure ErrorCode = "RETRIEVAL_PARTIAL_FAILURE"
	ErrCodeRecordStoreUnavailable  ErrorCode = "RECORD_STORE_UNAVAILABLE"

	ErrCodeGenerationFailed     ErrorCode = "GENERATION_FAILED"
	ErrCodeGenerationTimeout    ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeGenerationQuota      ErrorCode = "GENERATION_QUOTA_EXCEEDED"
	ErrCodeMalformedModelOutput ErrorCode = "MALFORMED_MODEL_OUTPUT"

	ErrCodeInvalidLanguage   ErrorCode = "INVALID_LANGUAGE"
	ErrCodeInvalidParameters ErrorCode = "INVALID_PARAMETERS"

	ErrCodeAuditPublishFailed ErrorCode = "AUDIT_PUBLISH_FAILED"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT"
	ErrCodeNotFound        ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeAuthentication  ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewInvalidParametersError carries the user-facing message in Message.
func NewInvalidParametersError(message string) *StandardError {
	return newError(ErrCodeInvalidParameters, message, nil, false)
}

func NewInvalidLanguageError() *StandardError {
	return newError(ErrCodeInvalidLanguage, models.InvalidLanguageMessage(), nil, false)
}

func NewGenerationFailedError(err error) *StandardError {
	return newError(ErrCodeGenerationFailed, "Completion service failed to produce a reply", err, true)
}

func NewGenerationTimeoutError(err error) *StandardError {
	return newError(ErrCodeGenerationTimeout, "Completion service timed out", err, true)
}

func NewGenerationQuotaError(err error) *StandardError {
	return newError(ErrCodeGenerationQuota, "Completion quota exceeded", err, true)
}

func NewMalformedModelOutputError(operation string, err error) *StandardError {
	e := newError(ErrCodeMalformedModelOutput, "Model output did not match the expected structure", err, false)
	e.Metadata = map[string]interface{}{"operation": operation}
	return e
}

// NewRetrievalPartialFailureError is informational; it never fails a job.
func NewRetrievalPartialFailureError(kinds []string) *StandardError {
	e := newError(ErrCodeRetrievalPartialFailure, "Some record kinds could not be retrieved", nil, false)
	e.Details = strings.Join(kinds, ",")
	return e
}

func NewRecordStoreUnavailableError(err error) *StandardError {
	return newError(ErrCodeRecordStoreUnavailable, "Record store unavailable", err, true)
}

func NewAuditPublishFailedError(err error) *StandardError {
	return newError(ErrCodeAuditPublishFailed, "Failed to publish audit event", err, false)
}

func NewExternalServiceError(service string, err error) *StandardError {
	e := newError(ErrCodeExternalService, fmt.Sprintf("%s request failed", service), err, true)
	e.Metadata = map[string]interface{}{"service": service}
	return e
}

func NewTimeoutError(service string, err error) *StandardError {
	e := newError(ErrCodeTimeout, fmt.Sprintf("%s request timed out", service), err, true)
	e.Metadata = map[string]interface{}{"service": service}
	return e
}

func NewResourceNotFoundError(resource, message string) *StandardError {
	e := newError(ErrCodeNotFound, message, nil, false)
	e.Metadata = map[string]interface{}{"resource": resource}
	return e
}

func NewAuthenticationError(message string) *StandardError {
	return newError(ErrCodeAuthentication, message, nil, false)
}

// FromError maps domain sentinels onto standard errors. A *StandardError is
// returned unchanged.
func FromError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	switch {
	case stderrors.Is(err, models.ErrUnsupportedLanguage):
		e := NewInvalidLanguageError()
		e.cause = err
		return e
	case stderrors.Is(err, models.ErrInvalidParameters):
		msg := strings.TrimPrefix(err.Error(), models.ErrInvalidParameters.Error()+": ")
		e := NewInvalidParametersError(msg)
		e.cause = err
		return e
	case stderrors.Is(err, llm.ErrQuotaExceeded):
		return NewGenerationQuotaError(err)
	case stderrors.Is(err, llm.ErrGenerationTimeout), stderrors.Is(err, context.DeadlineExceeded):
		return NewGenerationTimeoutError(err)
	case stderrors.Is(err, llm.ErrGenerationFailed):
		return NewGenerationFailedError(err)
	case stderrors.Is(err, models.ErrStoreUnavailable):
		return NewRecordStoreUnavailableError(err)
	}
	return newError(ErrCodeInternal, "Unexpected error", err, false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the codes caught by boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeRetrievalPartialFailure: "RETRIEVAL_PARTIAL_FAILURE",
	ErrCodeRecordStoreUnavailable:  "RECORD_STORE_UNAVAILABLE",
	ErrCodeGenerationFailed:        "GENERATION_FAILED",
	ErrCodeGenerationTimeout:       "GENERATION_TIMEOUT",
	ErrCodeGenerationQuota:         "GENERATION_QUOTA_EXCEEDED",
	ErrCodeMalformedModelOutput:    "MALFORMED_MODEL_OUTPUT",
	ErrCodeInvalidLanguage:         "INVALID_LANGUAGE",
	ErrCodeInvalidParameters:       "INVALID_PARAMETERS",
	ErrCodeAuditPublishFailed:      "AUDIT_PUBLISH_FAILED",
	ErrCodeExternalService:         "EXTERNAL_SERVICE_ERROR",
	ErrCodeTimeout:                 "TIMEOUT",
	ErrCodeNotFound:                "RESOURCE_NOT_FOUND",
	ErrCodeAuthentication:          "AUTHENTICATION_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeRecordStoreUnavailable:
		return 3
	case ErrCodeGenerationQuota, ErrCodeExternalService, ErrCodeTimeout:
		return 2
	case ErrCodeGenerationFailed, ErrCodeGenerationTimeout:
		return 1
	default:
		return 0 // validation and malformed output are not retried
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "RETRIEVAL") || strings.Contains(codeStr, "RECORD_STORE"):
		return "RETRIEVAL"
	case strings.Contains(codeStr, "GENERATION") || strings.Contains(codeStr, "MODEL_OUTPUT"):
		return "AI"
	case strings.Contains(codeStr, "AUDIT"):
		return "AUDIT"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

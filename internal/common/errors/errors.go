// Package errors provides classified errors for the intel pipeline and their
// conversion to BPMN errors for the workflow engine.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Provider tier failures. These are absorbed by the pipeline.
	ErrCodeTransport       ErrorCode = "TRANSPORT_ERROR"
	ErrCodeDecode          ErrorCode = "DECODE_ERROR"
	ErrCodeEmptyResult     ErrorCode = "EMPTY_RESULT"
	ErrCodeSchemaViolation ErrorCode = "SCHEMA_VIOLATION"

	// Surfaced to callers.
	ErrCodeEnrichmentUnavailable ErrorCode = "ENRICHMENT_UNAVAILABLE"
	ErrCodeInvalidQuery          ErrorCode = "INVALID_QUERY"
	ErrCodeInvalidInput          ErrorCode = "INVALID_INPUT"

	// Infrastructure.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"
	ErrCodeNotFound        ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeBusinessRule    ErrorCode = "BUSINESS_RULE_VIOLATION"
	ErrCodeAuthentication  ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Source    string                 `json:"source,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("StandardError[%s] %s: %s", e.Code, e.Source, e.Message)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches another *StandardError by code, so sentinel comparisons work
// with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
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

func newError(code ErrorCode, source, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Source:    source,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewTransportError wraps a network failure or a non-success status.
func NewTransportError(source string, err error) *StandardError {
	return newError(ErrCodeTransport, source, "provider request failed", err, true)
}

// NewDecodeError wraps a body that could not be parsed.
func NewDecodeError(source string, err error) *StandardError {
	return newError(ErrCodeDecode, source, "provider response could not be decoded", err, false)
}

// NewEmptyResultError reports a well-formed response with nothing in it.
func NewEmptyResultError(source string) *StandardError {
	return newError(ErrCodeEmptyResult, source, "provider returned no results", nil, false)
}

// NewSchemaViolationError reports a decoded document that fails its schema.
func NewSchemaViolationError(source, details string) *StandardError {
	e := newError(ErrCodeSchemaViolation, source, "provider response violates schema", nil, false)
	e.Details = details
	return e
}

// NewEnrichmentUnavailableError reports that no profile could be produced.
func NewEnrichmentUnavailableError(cause error) *StandardError {
	return newError(ErrCodeEnrichmentUnavailable, "enrichment", "enrichment unavailable", cause, false)
}

// NewInvalidQueryError reports an unusable subject or query.
func NewInvalidQueryError(details string) *StandardError {
	e := newError(ErrCodeInvalidQuery, "", "query is too short or empty", nil, false)
	e.Details = details
	return e
}

// NewInvalidInputError reports job variables that fail validation.
func NewInvalidInputError(details string) *StandardError {
	e := newError(ErrCodeInvalidInput, "", "job input validation failed", nil, false)
	e.Details = details
	return e
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	e := newError(ErrCodeBusinessRule, "", message, nil, false)
	e.Details = details
	return e
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, service, fmt.Sprintf("External service '%s' error", service), err, true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, service, fmt.Sprintf("Service '%s' timeout", service), err, true)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	e := newError(ErrCodeNotFound, service, fmt.Sprintf("Resource not found in %s", service), nil, false)
	e.Details = details
	return e
}

func NewAuthenticationError(details string) *StandardError {
	e := newError(ErrCodeAuthentication, "", "Authentication failed", nil, false)
	e.Details = details
	return e
}

// Sentinels for errors.Is comparisons.
var (
	ErrTransport             = &StandardError{Code: ErrCodeTransport}
	ErrDecode                = &StandardError{Code: ErrCodeDecode}
	ErrEmptyResult           = &StandardError{Code: ErrCodeEmptyResult}
	ErrSchemaViolation       = &StandardError{Code: ErrCodeSchemaViolation}
	ErrEnrichmentUnavailable = &StandardError{Code: ErrCodeEnrichmentUnavailable}
	ErrInvalidQuery          = &StandardError{Code: ErrCodeInvalidQuery}
)

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes. Codes missing
// here are passed through unchanged.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeEnrichmentUnavailable: "ENRICHMENT_UNAVAILABLE",
	ErrCodeInvalidQuery:          "INVALID_QUERY",
	ErrCodeInvalidInput:          "INVALID_INPUT",
	ErrCodeTransport:             "PROVIDER_UNAVAILABLE",
	ErrCodeDecode:                "PROVIDER_UNAVAILABLE",
	ErrCodeSchemaViolation:       "PROVIDER_UNAVAILABLE",
}

// GetRetryCount returns the recommended job retry count for a code. The
// pipeline itself never retries; these only apply to workflow jobs.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeExternalService, ErrCodeTransport:
		return 3
	case ErrCodeTimeout:
		return 2
	default:
		return 0
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
	if stdErr.Source != "" {
		vars["errorSource"] = stdErr.Source
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

// AsStandard extracts a *StandardError from err's chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// CodeOf returns the classification of err, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if stdErr, ok := AsStandard(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeTransport, ErrCodeDecode, ErrCodeEmptyResult, ErrCodeSchemaViolation:
		return "PROVIDER"
	case ErrCodeEnrichmentUnavailable:
		return "ENRICHMENT"
	}
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "TIMEOUT") || strings.Contains(codeStr, "SERVICE"):
		return "INFRASTRUCTURE"
	default:
		return "OTHER"
	}
}

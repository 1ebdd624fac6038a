// Package errors provides the structured error model shared by provisioning,
// the orchestrator and the BPMN job worker.
package errors

import (
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
	// Input errors. Fatal for the record and surfaced to the caller.
	ErrCodeMalformedInput          ErrorCode = "MALFORMED_INPUT"
	ErrCodeInvalidTerm             ErrorCode = "INVALID_TERM"
	ErrCodeSourceFormatUnsupported ErrorCode = "SOURCE_FORMAT_UNSUPPORTED"

	// Source access.
	ErrCodeSourceUnavailable        ErrorCode = "SOURCE_UNAVAILABLE"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"

	// Simulation.
	ErrCodeInvalidSimulationParameters ErrorCode = "INVALID_SIMULATION_PARAMETERS"
	ErrCodeRatePathTooShort            ErrorCode = "RATE_PATH_TOO_SHORT"
	ErrCodeSimulationFailed            ErrorCode = "SIMULATION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error { return e.cause }

// WithMetadata sets a metadata key and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
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

// NewMalformedInputError reports a source row field that cannot be used,
// typically because it is not an integer.
func NewMalformedInputError(line int, field, value, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedInput,
		Message:   "Applicant row has an invalid field",
		Details:   fmt.Sprintf("line %d: %s=%q %s", line, field, value, reason),
		Retryable: false,
		Metadata:  map[string]interface{}{"line": line, "field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTermError reports a loan term that is zero or negative.
func NewInvalidTermError(line, term int) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTerm,
		Message:   "Loan term must be positive",
		Details:   fmt.Sprintf("line %d: months_loan_duration=%d", line, term),
		Retryable: false,
		Metadata:  map[string]interface{}{"line": line},
		Timestamp: time.Now().UTC(),
	}
}

func NewSourceFormatUnsupportedError(format string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceFormatUnsupported,
		Message:   "Unsupported applicant source format",
		Details:   fmt.Sprintf("format: %s", format),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceUnavailableError wraps an open or read failure of a source.
func NewSourceUnavailableError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceUnavailable,
		Message:   "Applicant source could not be read",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewQueryExecutionFailedError(table string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("table: %s, error: %s", table, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Applicant cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewInvalidSimulationParametersError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSimulationParameters,
		Message:   "Invalid simulation parameters",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewRatePathTooShortError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRatePathTooShort,
		Message:   "Rate path shorter than the longest admitted term",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewSimulationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSimulationFailed,
		Message:   "Simulation run failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeMalformedInput:              "MALFORMED_INPUT",
	ErrCodeInvalidTerm:                 "INVALID_TERM",
	ErrCodeSourceFormatUnsupported:     "SOURCE_FORMAT_UNSUPPORTED",
	ErrCodeSourceUnavailable:           "SOURCE_UNAVAILABLE",
	ErrCodeDatabaseConnectionFailed:    "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:        "QUERY_EXECUTION_FAILED",
	ErrCodeCacheUnavailable:            "CACHE_UNAVAILABLE",
	ErrCodeInvalidSimulationParameters: "INVALID_SIMULATION_PARAMETERS",
	ErrCodeRatePathTooShort:            "RATE_PATH_TOO_SHORT",
	ErrCodeSimulationFailed:            "SIMULATION_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSourceUnavailable,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed:
		return 3

	case ErrCodeCacheUnavailable:
		return 1

	default:
		return 0 // input and simulation errors: no retry
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
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "SOURCE") || strings.Contains(codeStr, "CACHE"):
		return "PROVISIONING"
	case strings.Contains(codeStr, "INPUT") || strings.Contains(codeStr, "TERM") ||
		strings.Contains(codeStr, "PARAMETERS"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SIMULATION") || strings.Contains(codeStr, "RATE_PATH"):
		return "SIMULATION"
	default:
		return "UNKNOWN"
	}
}

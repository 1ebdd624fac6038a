package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := stderrors.New("connection refused")

	tests := []struct {
		name      string
		err       *StandardError
		code      ErrorCode
		retryable bool
	}{
		{"malformed input", NewMalformedInputError(3, "age", "abc", "is not an integer"), ErrCodeMalformedInput, false},
		{"invalid term", NewInvalidTermError(4, 0), ErrCodeInvalidTerm, false},
		{"unsupported format", NewSourceFormatUnsupportedError("parquet"), ErrCodeSourceFormatUnsupported, false},
		{"source unavailable", NewSourceUnavailableError("data/credit.csv", cause), ErrCodeSourceUnavailable, true},
		{"database", NewDatabaseConnectionFailedError(cause), ErrCodeDatabaseConnectionFailed, true},
		{"query", NewQueryExecutionFailedError("credit_applicants", cause), ErrCodeQueryExecutionFailed, true},
		{"cache", NewCacheUnavailableError(cause), ErrCodeCacheUnavailable, true},
		{"parameters", NewInvalidSimulationParametersError("number_of_clients must be > 0"), ErrCodeInvalidSimulationParameters, false},
		{"rate path", NewRatePathTooShortError(cause), ErrCodeRatePathTooShort, false},
		{"simulation", NewSimulationFailedError(cause), ErrCodeSimulationFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.NotEmpty(t, tt.err.Message)
			assert.False(t, tt.err.Timestamp.IsZero())
			assert.Contains(t, tt.err.Error(), string(tt.code))
		})
	}
}

func TestMalformedInputDetails(t *testing.T) {
	err := NewMalformedInputError(7, "amount", "12x", "is not an integer")

	assert.Equal(t, `line 7: amount="12x" is not an integer`, err.Details)
	assert.Equal(t, 7, err.Metadata["line"])
	assert.Equal(t, "amount", err.Metadata["field"])
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("timeout")
	err := fmt.Errorf("load: %w", NewSourceUnavailableError("s3://bucket/credit.csv", cause))

	assert.ErrorIs(t, err, cause)

	var stdErr *StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, ErrCodeSourceUnavailable, stdErr.Code)
}

func TestNormalize(t *testing.T) {
	original := NewInvalidTermError(2, -1)
	assert.Same(t, original, Normalize(fmt.Errorf("wrapped: %w", original)))

	plain := stderrors.New("boom")
	normalized := Normalize(plain)
	assert.Equal(t, ErrCodeSimulationFailed, normalized.Code)
	assert.False(t, normalized.Retryable)
	assert.Equal(t, "boom", normalized.Details)
	assert.ErrorIs(t, normalized, plain)
}

func TestGetRetryCount(t *testing.T) {
	assert.Equal(t, 3, GetRetryCount(ErrCodeSourceUnavailable))
	assert.Equal(t, 3, GetRetryCount(ErrCodeQueryExecutionFailed))
	assert.Equal(t, 1, GetRetryCount(ErrCodeCacheUnavailable))
	assert.Equal(t, 0, GetRetryCount(ErrCodeMalformedInput))
	assert.Equal(t, 0, GetRetryCount(ErrCodeRatePathTooShort))

	assert.True(t, IsRetryableErrorCode(ErrCodeDatabaseConnectionFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidSimulationParameters))
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeDatabaseConnectionFailed:    "DATABASE",
		ErrCodeQueryExecutionFailed:        "DATABASE",
		ErrCodeSourceUnavailable:           "PROVISIONING",
		ErrCodeSourceFormatUnsupported:     "PROVISIONING",
		ErrCodeCacheUnavailable:            "PROVISIONING",
		ErrCodeMalformedInput:              "VALIDATION",
		ErrCodeInvalidTerm:                 "VALIDATION",
		ErrCodeInvalidSimulationParameters: "VALIDATION",
		ErrCodeSimulationFailed:            "SIMULATION",
		ErrCodeRatePathTooShort:            "SIMULATION",
		ErrorCode("SOMETHING_ELSE"):        "UNKNOWN",
	}
	for code, want := range tests {
		assert.Equal(t, want, GetErrorCategory(code), string(code))
	}
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable", func(t *testing.T) {
		stdErr := NewQueryExecutionFailedError("credit_applicants", stderrors.New("deadlock")).
			WithMetadata("table", "credit_applicants")

		bpmnErr := ConvertToBPMNError(stdErr)
		assert.Equal(t, "QUERY_EXECUTION_FAILED", bpmnErr.Code)
		assert.True(t, bpmnErr.Retryable)
		assert.Equal(t, 3, bpmnErr.Retries)
		assert.Equal(t, "credit_applicants", bpmnErr.ErrorVariables["table"])
		assert.Equal(t, "QUERY_EXECUTION_FAILED", bpmnErr.ErrorVariables["originalErrorCode"])

		vars := bpmnErr.ToErrorVariables()
		assert.Equal(t, "QUERY_EXECUTION_FAILED", vars["errorCode"])
		assert.Equal(t, true, vars["retryable"])
		assert.Equal(t, "credit_applicants", vars["table"])
	})

	t.Run("non retryable", func(t *testing.T) {
		bpmnErr := ConvertToBPMNError(NewMalformedInputError(1, "age", "", "column is missing"))
		assert.Equal(t, "MALFORMED_INPUT", bpmnErr.Code)
		assert.Equal(t, 0, bpmnErr.Retries)
		assert.Equal(t, 1, bpmnErr.ErrorVariables["line"])
	})

	t.Run("unmapped code", func(t *testing.T) {
		bpmnErr := ConvertToBPMNError(&StandardError{Code: "CUSTOM", Message: "custom", Retryable: true})
		assert.Equal(t, "CUSTOM", bpmnErr.Code)
		assert.Equal(t, 0, bpmnErr.Retries)
	})
}

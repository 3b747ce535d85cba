// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_Chain(t *testing.T) {
	cause := fs.ErrNotExist
	err := fmt.Errorf("run: %w", NewUpstreamFailureError("file", cause))

	assert.True(t, IsCode(err, ErrCodeUpstreamFailure))
	assert.False(t, IsCode(err, ErrCodeExportFailed))
	assert.True(t, stderrors.Is(err, fs.ErrNotExist))

	stdErr, ok := AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, "file", stdErr.Metadata["source"])
	assert.Contains(t, stdErr.Error(), "UPSTREAM_FAILURE")

	_, ok = AsStandardError(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestNewUpstreamFailureError_WithoutCause(t *testing.T) {
	err := NewUpstreamFailureError("parser", nil)

	assert.Equal(t, "no usable candidates", err.Details)
	assert.Nil(t, err.Unwrap())
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err       *StandardError
		code      ErrorCode
		retryable bool
	}{
		{NewValidationRejectedError(2, "title", "title is empty"), ErrCodeValidationRejected, false},
		{NewConfigurationError("scoring.weights", "sum"), ErrCodeConfigurationInvalid, false},
		{NewExportFailedError("out/a.json", fmt.Errorf("disk full")), ErrCodeExportFailed, false},
		{NewInvalidInputError("bad"), ErrCodeInvalidInput, false},
		{NewNotificationSendFailedError("sns", fmt.Errorf("throttled")), ErrCodeNotificationSendFailed, true},
		{NewExternalServiceError("zeebe", fmt.Errorf("unavailable")), ErrCodeExternalService, true},
		{NewInternalError(fmt.Errorf("boom")), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.False(t, tt.err.Timestamp.IsZero())
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StandardError
		bpmnCode string
		retries  int
	}{
		{"upstream maps to no input", NewUpstreamFailureError("genai", fmt.Errorf("quota")), "NO_INPUT", 0},
		{"export failure is terminal", NewExportFailedError("x", fmt.Errorf("ro")), "EXPORT_FAILED", 0},
		{"notification is retried", NewNotificationSendFailedError("email", fmt.Errorf("x")), "NOTIFICATION_SEND_FAILED", 3},
		{"unmapped code passes through", NewInternalError(fmt.Errorf("x")), "INTERNAL_ERROR", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.bpmnCode, bpmn.Code)
			assert.Equal(t, tt.retries, bpmn.Retries)
			assert.Equal(t, string(tt.err.Code), bpmn.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_NonRetryableInstance(t *testing.T) {
	err := NewExternalServiceError("zeebe", fmt.Errorf("permission denied"))
	err.Retryable = false

	assert.Equal(t, 0, ConvertToBPMNError(err).Retries)
}

func TestConvertToBPMNError_CarriesMetadata(t *testing.T) {
	bpmn := ConvertToBPMNError(NewExportFailedError("out/a.json", fmt.Errorf("x")))

	assert.Equal(t, "out/a.json", bpmn.ErrorVariables["path"])
	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "EXPORT_FAILED", vars["errorCode"])
	assert.Equal(t, "out/a.json", vars["path"])
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeConfigurationInvalid))
	assert.Equal(t, "UPSTREAM", GetErrorCategory(ErrCodeUpstreamFailure))
	assert.Equal(t, "EXPORT", GetErrorCategory(ErrCodeExportFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationRejected))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
	assert.Equal(t, "EXTERNAL", GetErrorCategory(ErrCodeExternalService))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
	assert.True(t, IsRetryableErrorCode(ErrCodeNotificationSendFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeUpstreamFailure))
}

func TestRemainingRetries(t *testing.T) {
	assert.Equal(t, 0, remainingRetries(0, 3))
	assert.Equal(t, 0, remainingRetries(3, 0))
	assert.Equal(t, 2, remainingRetries(3, 2))
	assert.Equal(t, 3, remainingRetries(3, 5))
}

func TestErrorVariables(t *testing.T) {
	vars, ok := errorVariables(ConvertToBPMNError(NewUpstreamFailureError("file", nil)))

	require.True(t, ok)
	assert.Contains(t, vars, `"errorCode":"NO_INPUT"`)
	assert.Contains(t, vars, `"source":"file"`)
}

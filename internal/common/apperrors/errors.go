// Package apperrors provides the standardized error taxonomy for the
// question-answering pipeline.
package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeClassificationFailed    ErrorCode = "CLASSIFICATION_FAILED"
	ErrCodeQueryValidationRejected ErrorCode = "QUERY_VALIDATION_REJECTED"
	ErrCodeExecutionFailed         ErrorCode = "EXECUTION_FAILED"
	ErrCodeEnhancementSkipped      ErrorCode = "ENHANCEMENT_SKIPPED"
	ErrCodeIntentAPITimeout        ErrorCode = "INTENT_API_TIMEOUT"
	ErrCodeEnhancerTimeout         ErrorCode = "ENHANCER_TIMEOUT"
	ErrCodeStoreQueryFailed        ErrorCode = "STORE_QUERY_FAILED"
)

// PipelineError is a structured error carried through the pipeline.
// UserFacing distinguishes errors the caller can correct (a rejected query)
// from internal faults.
type PipelineError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	Stage      string    `json:"stage,omitempty"`
	UserFacing bool      `json:"userFacing"`
	Retryable  bool      `json:"retryable"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("PipelineError[%s]: %s", e.Code, e.Message)
}

// NewClassificationFailed wraps an intent-classifier failure. Fatal to the
// request; surfaced as an internal error.
func NewClassificationFailed(err error) *PipelineError {
	return &PipelineError{
		Code:       ErrCodeClassificationFailed,
		Message:    "Intent classification failed",
		Details:    err.Error(),
		Stage:      "classifying",
		UserFacing: false,
		Retryable:  true,
		Timestamp:  time.Now().UTC(),
	}
}

// NewQueryValidationRejected wraps a validator rejection. The caller can
// rephrase the question, so the rejection reason is surfaced verbatim.
func NewQueryValidationRejected(reason string) *PipelineError {
	return &PipelineError{
		Code:       ErrCodeQueryValidationRejected,
		Message:    "Query validation failed",
		Details:    reason,
		Stage:      "validating_executing",
		UserFacing: true,
		Retryable:  false,
		Timestamp:  time.Now().UTC(),
	}
}

// NewExecutionFailed wraps a backend executor failure. Fatal to the request.
func NewExecutionFailed(err error) *PipelineError {
	return &PipelineError{
		Code:       ErrCodeExecutionFailed,
		Message:    "Store query execution failed",
		Details:    err.Error(),
		Stage:      "validating_executing",
		UserFacing: false,
		Retryable:  true,
		Timestamp:  time.Now().UTC(),
	}
}

// NewStoreQueryFailed wraps a live data-source error below the executor.
func NewStoreQueryFailed(source string, err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeStoreQueryFailed,
		Message:   fmt.Sprintf("Store data source '%s' error", source),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// IsUserFacing reports whether err is a PipelineError the caller can act on.
func IsUserFacing(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.UserFacing
	}
	return false
}

// CodeOf extracts the ErrorCode from err, or UNKNOWN_ERROR.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return "UNKNOWN_ERROR"
}

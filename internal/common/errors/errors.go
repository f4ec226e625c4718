// Package errors provides standardized error handling for the intake pipeline.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Validation errors (caller supplied missing/malformed input)
	ErrCodeMissingJobID     ErrorCode = "MISSING_JOB_ID"
	ErrCodeMissingFile      ErrorCode = "MISSING_FILE"
	ErrCodeInvalidFileType  ErrorCode = "INVALID_FILE_TYPE"
	ErrCodeFileTooLarge     ErrorCode = "FILE_TOO_LARGE"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeMissingThreshold ErrorCode = "MISSING_THRESHOLD"

	// Not-found errors
	ErrCodeJobNotFound         ErrorCode = "JOB_NOT_FOUND"
	ErrCodeApplicationNotFound ErrorCode = "APPLICATION_NOT_FOUND"

	// Conflict errors
	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"

	// Degraded external dependency (absorbed, never surfaced as failure)
	ErrCodeAnalyzerUnavailable ErrorCode = "ANALYZER_UNAVAILABLE"

	// Internal errors
	ErrCodeStorageFailed  ErrorCode = "STORAGE_FAILED"
	ErrCodeFileSaveFailed ErrorCode = "FILE_SAVE_FAILED"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewMissingJobIDError creates a validation error for an absent job reference.
func NewMissingJobIDError() *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingJobID,
		Message:   "Job ID is required",
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingFileError creates a validation error for a missing upload.
func NewMissingFileError() *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingFile,
		Message:   "Please upload a resume file",
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFileTypeError creates a validation error for an unsupported extension.
func NewInvalidFileTypeError(ext string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFileType,
		Message:   "Only PDF and DOCX files are allowed",
		Details:   fmt.Sprintf("extension: %s", ext),
		Timestamp: time.Now().UTC(),
	}
}

// NewFileTooLargeError creates a validation error for an oversized upload.
func NewFileTooLargeError(size, limit int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileTooLarge,
		Message:   "Resume file exceeds the size limit",
		Details:   fmt.Sprintf("size: %d, limit: %d", size, limit),
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidStatusError creates a validation error for a status outside the enum.
func NewInvalidStatusError(status string, valid []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStatus,
		Message:   "Invalid status",
		Details:   fmt.Sprintf("status: %q, valid: %v", status, valid),
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingThresholdError creates a validation error for an absent threshold.
func NewMissingThresholdError() *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingThreshold,
		Message:   "Threshold score is required",
		Timestamp: time.Now().UTC(),
	}
}

// NewJobNotFoundError creates a not-found error for a job reference.
func NewJobNotFoundError(jobID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeJobNotFound,
		Message:   "Job not found",
		Details:   fmt.Sprintf("jobId: %s", jobID),
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicationNotFoundError creates a not-found error for an application id.
func NewApplicationNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationNotFound,
		Message:   "Application not found",
		Details:   fmt.Sprintf("applicationId: %s", id),
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateApplicationError creates a conflict error for a repeated
// (applicant, job) pair.
func NewDuplicateApplicationError(applicantID, jobID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateApplication,
		Message:   "You have already applied to this job",
		Details:   fmt.Sprintf("applicantId: %s, jobId: %s", applicantID, jobID),
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalyzerUnavailableError records a degraded analyzer call. It is logged
// and counted, never returned to the caller of the intake chain.
func NewAnalyzerUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalyzerUnavailable,
		Message:   "Analyzer service unavailable",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewStorageError creates an internal error wrapping a storage failure.
func NewStorageError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFailed,
		Message:   "Storage operation failed",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewFileSaveError creates an internal error wrapping a file write failure.
func NewFileSaveError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFileSaveFailed,
		Message:   "Failed to store uploaded file",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInternalError creates a generic internal error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// httpStatusMapping maps internal error codes to HTTP status codes. Duplicate
// applications are framed as 400 to preserve the original inbound contract.
var httpStatusMapping = map[ErrorCode]int{
	ErrCodeMissingJobID:         http.StatusBadRequest,
	ErrCodeMissingFile:          http.StatusBadRequest,
	ErrCodeInvalidFileType:      http.StatusBadRequest,
	ErrCodeFileTooLarge:         http.StatusBadRequest,
	ErrCodeInvalidStatus:        http.StatusBadRequest,
	ErrCodeMissingThreshold:     http.StatusBadRequest,
	ErrCodeJobNotFound:          http.StatusNotFound,
	ErrCodeApplicationNotFound:  http.StatusNotFound,
	ErrCodeDuplicateApplication: http.StatusBadRequest,
	ErrCodeStorageFailed:        http.StatusInternalServerError,
	ErrCodeFileSaveFailed:       http.StatusInternalServerError,
	ErrCodeInternal:             http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status code for the error.
func (e *StandardError) HTTPStatus() int {
	if status, ok := httpStatusMapping[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Utility Functions
// ==========================

// AsStandard extracts a *StandardError from err, wrapping unknown errors as
// internal so every failure carries a code.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// CodeOf returns the error code of err, or ErrCodeInternal for plain errors.
func CodeOf(err error) ErrorCode {
	return AsStandard(err).Code
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// IsNotFound reports whether err is one of the not-found codes.
func IsNotFound(err error) bool {
	code := CodeOf(err)
	return code == ErrCodeJobNotFound || code == ErrCodeApplicationNotFound
}

// IsConflict reports whether err is the duplicate-application conflict.
func IsConflict(err error) bool {
	return IsCode(err, ErrCodeDuplicateApplication)
}

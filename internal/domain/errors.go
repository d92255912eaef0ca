package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Pipeline errors
	CodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	CodeExtractionFailed  ErrorCode = "EXTRACTION_FAILED"
	CodeInvalidConfig     ErrorCode = "INVALID_CONFIG"
	CodeGenerationTimeout ErrorCode = "GENERATION_TIMEOUT"
	CodeExportError       ErrorCode = "EXPORT_ERROR"
	CodeLLMServiceError   ErrorCode = "LLM_SERVICE_ERROR"
	CodeBankNotFound      ErrorCode = "BANK_NOT_FOUND"
)

// Sentinels for errors.Is. A DomainError matches a sentinel when the codes are equal.
var (
	ErrUnsupportedFormat = &DomainError{Code: CodeUnsupportedFormat}
	ErrExtractionFailed  = &DomainError{Code: CodeExtractionFailed}
	ErrInvalidConfig     = &DomainError{Code: CodeInvalidConfig}
	ErrGenerationTimeout = &DomainError{Code: CodeGenerationTimeout}
	ErrExportError       = &DomainError{Code: CodeExportError}
	ErrBankNotFound      = &DomainError{Code: CodeBankNotFound}
	ErrUnauthorized      = &DomainError{Code: CodeUnauthorized}
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithContext attaches a key/value pair that is surfaced in error responses
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewUnsupportedFormatError(format string) *DomainError {
	return NewError(CodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil).
		WithContext("format", format)
}

func NewExtractionFailedError(message string, cause error) *DomainError {
	return NewError(CodeExtractionFailed, message, cause)
}

func NewInvalidConfigError(message string) *DomainError {
	return NewError(CodeInvalidConfig, message, nil)
}

func NewGenerationTimeoutError(chunkID string, cause error) *DomainError {
	return NewError(CodeGenerationTimeout, fmt.Sprintf("generation timed out for chunk %s", chunkID), cause).
		WithContext("chunk_id", chunkID)
}

func NewExportError(message string, cause error) *DomainError {
	return NewError(CodeExportError, message, cause)
}

func NewLLMServiceError(cause error) *DomainError {
	return NewError(CodeLLMServiceError, "Failed to process with LLM service", cause)
}

func NewBankNotFoundError(bankID string) *DomainError {
	return NewError(CodeBankNotFound, fmt.Sprintf("question bank not found with ID: %s", bankID), nil).
		WithContext("bank_id", bankID)
}

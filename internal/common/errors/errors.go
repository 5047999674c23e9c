// Package errors provides the structured error values shared by the HTTP API,
// the CLI and the workflow job workers.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodePokemonNotFound      ErrorCode = "POKEMON_NOT_FOUND"
	ErrCodePokeAPIRequestFailed ErrorCode = "POKEAPI_REQUEST_FAILED"
	ErrCodePokeAPITimeout       ErrorCode = "POKEAPI_TIMEOUT"

	ErrCodeClassificationFailed ErrorCode = "CLASSIFICATION_FAILED"
	ErrCodeLLMTimeout           ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMRequestFailed     ErrorCode = "LLM_REQUEST_FAILED"
	ErrCodeBattleAnalysisFailed ErrorCode = "BATTLE_ANALYSIS_FAILED"

	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
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

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError carrying the same code, so sentinels such as
// ErrPokemonNotFound work with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrPokemonNotFound      = &StandardError{Code: ErrCodePokemonNotFound}
	ErrPokeAPIRequestFailed = &StandardError{Code: ErrCodePokeAPIRequestFailed}
	ErrClassificationFailed = &StandardError{Code: ErrCodeClassificationFailed}
	ErrInvalidRequest       = &StandardError{Code: ErrCodeInvalidRequest}
	ErrLLMTimeout           = &StandardError{Code: ErrCodeLLMTimeout}
	ErrLLMRequestFailed     = &StandardError{Code: ErrCodeLLMRequestFailed}
	ErrBattleAnalysisFailed = &StandardError{Code: ErrCodeBattleAnalysisFailed}
)

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

// NewPokemonNotFoundError is returned when the knowledge source has no entry
// for the requested name. The message is user facing.
func NewPokemonNotFoundError(name string) *StandardError {
	return &StandardError{
		Code:      ErrCodePokemonNotFound,
		Message:   fmt.Sprintf("Pokemon '%s' not found. Please check the spelling.", name),
		Details:   fmt.Sprintf("name: %s", name),
		Retryable: false,
		Metadata:  map[string]interface{}{"name": name},
		Timestamp: time.Now().UTC(),
	}
}

// NewPokeAPIRequestFailedError covers transport failures and non-404 statuses.
func NewPokeAPIRequestFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePokeAPIRequestFailed,
		Message:   fmt.Sprintf("Error fetching Pokemon data: %s", err.Error()),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewPokeAPITimeoutError creates a retryable timeout error.
func NewPokeAPITimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePokeAPITimeout,
		Message:   "Error fetching Pokemon data: request timed out",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewClassificationFailedError wraps any failure of the classifier call.
func NewClassificationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassificationFailed,
		Message:   "Question classification failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewLLMTimeoutError creates a retryable LLM timeout error.
func NewLLMTimeoutError(provider string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "LLM request timeout",
		Details:   fmt.Sprintf("provider: %s", provider),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMRequestFailedError creates a retryable LLM error.
func NewLLMRequestFailedError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMRequestFailed,
		Message:   fmt.Sprintf("LLM provider '%s' request failed", provider),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewBattleAnalysisFailedError wraps a failed reasoning step.
func NewBattleAnalysisFailedError(a, b string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBattleAnalysisFailed,
		Message:   fmt.Sprintf("Battle analysis between '%s' and '%s' failed", a, b),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInvalidRequestError creates a non-retryable validation error.
func NewInvalidRequestError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Conversion
// ==========================

// AsStandardError unwraps err to a StandardError, wrapping it as internal
// when nothing in the chain is one.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodePokemonNotFound:      "POKEMON_NOT_FOUND",
	ErrCodePokeAPIRequestFailed: "POKEAPI_REQUEST_FAILED",
	ErrCodePokeAPITimeout:       "POKEAPI_TIMEOUT",
	ErrCodeClassificationFailed: "CLASSIFICATION_FAILED",
	ErrCodeLLMTimeout:           "LLM_TIMEOUT",
	ErrCodeLLMRequestFailed:     "LLM_REQUEST_FAILED",
	ErrCodeBattleAnalysisFailed: "BATTLE_ANALYSIS_FAILED",
	ErrCodeInvalidRequest:       "INVALID_REQUEST",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodePokeAPIRequestFailed,
		ErrCodeLLMRequestFailed,
		ErrCodeBattleAnalysisFailed:
		return 3

	case ErrCodePokeAPITimeout,
		ErrCodeClassificationFailed:
		return 2

	case ErrCodeLLMTimeout:
		return 1

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

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// HTTPStatus maps an error code to the status the API responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodePokemonNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodePokeAPITimeout, ErrCodeLLMTimeout:
		return http.StatusGatewayTimeout
	case ErrCodePokeAPIRequestFailed, ErrCodeLLMRequestFailed,
		ErrCodeClassificationFailed, ErrCodeBattleAnalysisFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsNotFound reports whether err is a Pokemon-not-found error.
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrPokemonNotFound)
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "POKEMON") || strings.Contains(codeStr, "POKEAPI"):
		return "KNOWLEDGE"
	case strings.Contains(codeStr, "CLASSIFICATION") || strings.Contains(codeStr, "LLM") || strings.Contains(codeStr, "BATTLE"):
		return "AI"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

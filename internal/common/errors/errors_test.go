package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardErrorIs(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NewPokemonNotFoundError("missingno"))

	assert.True(t, IsNotFound(err))
	assert.True(t, stderrors.Is(err, ErrPokemonNotFound))
	assert.False(t, stderrors.Is(err, ErrLLMTimeout))
	assert.False(t, IsNotFound(stderrors.New("plain")))
}

func TestAsStandardError(t *testing.T) {
	assert.Nil(t, AsStandardError(nil))

	wrapped := fmt.Errorf("ctx: %w", NewLLMTimeoutError("openai"))
	assert.Equal(t, ErrCodeLLMTimeout, AsStandardError(wrapped).Code)

	cause := stderrors.New("boom")
	internal := AsStandardError(cause)
	assert.Equal(t, ErrCodeInternal, internal.Code)
	assert.ErrorIs(t, internal, cause)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodePokemonNotFound, http.StatusNotFound},
		{ErrCodeInvalidRequest, http.StatusBadRequest},
		{ErrCodePokeAPITimeout, http.StatusGatewayTimeout},
		{ErrCodeLLMTimeout, http.StatusGatewayTimeout},
		{ErrCodePokeAPIRequestFailed, http.StatusBadGateway},
		{ErrCodeClassificationFailed, http.StatusBadGateway},
		{ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable request failure keeps its budget", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewPokeAPIRequestFailedError(stderrors.New("502")))
		assert.Equal(t, "POKEAPI_REQUEST_FAILED", bpmn.Code)
		assert.Equal(t, 3, bpmn.Retries)
		assert.True(t, bpmn.Retryable)
	})

	t.Run("not found is thrown immediately", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewPokemonNotFoundError("agumon"))
		assert.Equal(t, "POKEMON_NOT_FOUND", bpmn.Code)
		assert.Zero(t, bpmn.Retries)

		vars := bpmn.ToErrorVariables()
		require.Contains(t, vars, "originalErrorCode")
		assert.Equal(t, "POKEMON_NOT_FOUND", vars["originalErrorCode"])
		assert.Equal(t, bpmn.Message, vars["errorMessage"])
	})

	t.Run("unmapped code passes through", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewInternalError(stderrors.New("boom")))
		assert.Equal(t, "INTERNAL_ERROR", bpmn.Code)
		assert.Zero(t, bpmn.Retries)
	})
}

func TestRemainingRetries(t *testing.T) {
	tests := []struct {
		name       string
		jobRetries int32
		maxRetries int
		want       int32
	}{
		{"engine has more than budget", 5, 3, 3},
		{"engine equals budget", 3, 3, 2},
		{"engine below budget", 2, 3, 1},
		{"last attempt", 1, 3, 0},
		{"exhausted", 0, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, remainingRetries(tt.jobRetries, tt.maxRetries))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "KNOWLEDGE", GetErrorCategory(ErrCodePokemonNotFound))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeLLMTimeout))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidRequest))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

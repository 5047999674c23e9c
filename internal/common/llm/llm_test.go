// internal/common/llm/llm_test.go
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokemon-assistant/internal/common/config"
	apperrors "pokemon-assistant/internal/common/errors"
	"pokemon-assistant/internal/common/logger"
)

// ==========================
// Test Helpers
// ==========================

func createTestConfig(provider, baseURL string) config.LLMConfig {
	return config.LLMConfig{
		Provider:    provider,
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Model:       "test-model",
		Timeout:     2000,
		MaxRetries:  1,
		MaxTokens:   256,
		Temperature: 0.1,
	}
}

func chatCompletionResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   "test-model",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]interface{}{"role": "assistant", "content": content},
			},
		},
	}
}

// ==========================
// OpenAI
// ==========================

func TestOpenAI_Complete_Success(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletionResponse("  Charizard would win.  "))
	}))
	defer server.Close()

	client := NewOpenAI(createTestConfig(ProviderOpenAI, server.URL+"/v1"), logger.NewTestLogger(t))
	text, err := client.Complete(context.Background(), Request{System: "be brief", Prompt: "who wins?", JSON: true})
	require.NoError(t, err)

	assert.Equal(t, "Charizard would win.", text)
	assert.Equal(t, "test-model", received["model"])
	messages := received["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, "who wins?", messages[1].(map[string]interface{})["content"])
	assert.Equal(t, "json_object", received["response_format"].(map[string]interface{})["type"])
}

func TestOpenAI_Complete_RetriesThenFails(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	client := NewOpenAI(createTestConfig(ProviderOpenAI, server.URL+"/v1"), logger.NewTestLogger(t))
	_, err := client.Complete(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)

	assert.Equal(t, apperrors.ErrCodeLLMRequestFailed, apperrors.AsStandardError(err).Code)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestOpenAI_Complete_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletionResponse("   "))
	}))
	defer server.Close()

	client := NewOpenAI(createTestConfig(ProviderOpenAI, server.URL+"/v1"), logger.NewTestLogger(t))
	_, err := client.Complete(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyResponse))
}

// ==========================
// Gateway
// ==========================

func TestGateway_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/generate", r.URL.Path)
		var body gatewayRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "who wins?", body.Prompt)
		assert.Equal(t, "json", body.ResponseType)
		assert.Equal(t, 256, body.MaxTokens)

		_ = json.NewEncoder(w).Encode(gatewayResponse{Text: "Pikachu wins.", Confidence: 0.8})
	}))
	defer server.Close()

	client := NewGateway(createTestConfig(ProviderGateway, server.URL), logger.NewTestLogger(t))
	text, err := client.Complete(context.Background(), Request{Prompt: "who wins?", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, "Pikachu wins.", text)
}

func TestGateway_Complete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	cfg := createTestConfig(ProviderGateway, server.URL)
	cfg.Timeout = 50
	client := NewGateway(cfg, logger.NewTestLogger(t))

	_, err := client.Complete(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeLLMTimeout, apperrors.AsStandardError(err).Code)
}

func TestGateway_Complete_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewGateway(createTestConfig(ProviderGateway, server.URL), logger.NewTestLogger(t))
	_, err := client.Complete(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeLLMRequestFailed, apperrors.AsStandardError(err).Code)
}

// ==========================
// Factory
// ==========================

func TestNew(t *testing.T) {
	c, err := New(context.Background(), createTestConfig(ProviderOpenAI, ""), logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, c)

	c, err = New(context.Background(), createTestConfig(ProviderGateway, "http://localhost"), logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.IsType(t, &Gateway{}, c)

	_, err = New(context.Background(), createTestConfig("anthropic", ""), logger.NewNoOpLogger())
	assert.Error(t, err)

	cfg := createTestConfig(ProviderGemini, "")
	cfg.APIKey = ""
	_, err = New(context.Background(), cfg, logger.NewNoOpLogger())
	assert.Error(t, err)
}

// Package llm is the single entry point to language model backends.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pokemon-assistant/internal/common/config"
	apperrors "pokemon-assistant/internal/common/errors"
	"pokemon-assistant/internal/common/logger"
	"pokemon-assistant/internal/common/metrics"
)

const (
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
	ProviderGateway = "gateway"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("empty completion")

// Request is a single system + user turn.
type Request struct {
	System string
	Prompt string
	// JSON asks the backend for a JSON object response where supported.
	JSON bool
}

// Completer produces free text for a prompt.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// New builds the backend selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig, log logger.Logger) (Completer, error) {
	log = logger.ForComponent(log, "llm").With(map[string]interface{}{
		"provider": cfg.ProviderName(),
		"model":    cfg.Model,
	})

	switch cfg.ProviderName() {
	case ProviderOpenAI:
		return NewOpenAI(cfg, log), nil
	case ProviderGemini:
		return NewGemini(ctx, cfg, log)
	case ProviderGateway:
		return NewGateway(cfg, log), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// withTimeout bounds a call by the configured timeout.
func withTimeout(ctx context.Context, timeoutMs int) (context.Context, context.CancelFunc) {
	if timeoutMs <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, config.GetDuration(timeoutMs))
}

// observe records metrics and maps err onto the shared error codes.
func observe(provider, model string, start time.Time, text string, err error) (string, error) {
	metrics.LLMDuration.WithLabelValues(provider, model).Observe(time.Since(start).Seconds())

	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		status := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			status = "timeout"
			metrics.LLMRequests.WithLabelValues(provider, model, status).Inc()
			return "", apperrors.NewLLMTimeoutError(provider)
		}
		if errors.Is(err, ErrEmptyResponse) {
			status = "error_empty_response"
		}
		metrics.LLMRequests.WithLabelValues(provider, model, status).Inc()
		return "", apperrors.NewLLMRequestFailedError(provider, err)
	}

	metrics.LLMRequests.WithLabelValues(provider, model, "success").Inc()
	return strings.TrimSpace(text), nil
}

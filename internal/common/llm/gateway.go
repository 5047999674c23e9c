package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pokemon-assistant/internal/common/config"
	commonhttp "pokemon-assistant/internal/common/http"
	"pokemon-assistant/internal/common/logger"
)

// Gateway calls an internal GenAI HTTP service exposing
// POST /api/ai/generate.
type Gateway struct {
	baseURL string
	cfg     config.LLMConfig
	client  *commonhttp.Client
	logger  logger.Logger
}

func NewGateway(cfg config.LLMConfig, log logger.Logger) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		cfg:     cfg,
		client:  commonhttp.NewClient(0).WithRetries(cfg.MaxRetries),
		logger:  log,
	}
}

type gatewayRequest struct {
	Prompt       string  `json:"prompt"`
	System       string  `json:"system,omitempty"`
	Model        string  `json:"model,omitempty"`
	ResponseType string  `json:"response_type,omitempty"`
	MaxTokens    int     `json:"max_tokens"`
	Temperature  float64 `json:"temperature"`
}

type gatewayResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

func (g *Gateway) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := withTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	body := gatewayRequest{
		Prompt:      req.Prompt,
		System:      req.System,
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	}
	if req.JSON {
		body.ResponseType = "json"
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal gateway request: %w", err)
	}

	start := time.Now()
	resp, err := g.client.DoWithRetry(ctx, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/ai/generate", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		r.Header.Set("Content-Type", "application/json")
		if g.cfg.APIKey != "" {
			r.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
		}
		return r, nil
	})
	if err != nil {
		return observe(ProviderGateway, g.cfg.Model, start, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return observe(ProviderGateway, g.cfg.Model, start, "", fmt.Errorf("status %d", resp.StatusCode))
	}

	var out gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return observe(ProviderGateway, g.cfg.Model, start, "", fmt.Errorf("decode error: %w", err))
	}

	g.logger.Debug("Gateway completion received", map[string]interface{}{
		"confidence": out.Confidence,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return observe(ProviderGateway, g.cfg.Model, start, out.Text, nil)
}

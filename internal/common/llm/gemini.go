package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"pokemon-assistant/internal/common/config"
	"pokemon-assistant/internal/common/logger"
)

// Gemini uses the Google GenAI SDK.
type Gemini struct {
	client *genai.Client
	cfg    config.LLMConfig
	logger logger.Logger
}

func NewGemini(ctx context.Context, cfg config.LLMConfig, log logger.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{client: client, cfg: cfg, logger: log}, nil
}

func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := withTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(g.cfg.Temperature)),
		MaxOutputTokens: int32(g.cfg.MaxTokens),
	}
	if req.System != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, contents, genCfg)
	if err != nil {
		g.logger.Warn("GenerateContent failed", map[string]interface{}{"error": err.Error()})
		return observe(ProviderGemini, g.cfg.Model, start, "", err)
	}
	return observe(ProviderGemini, g.cfg.Model, start, resp.Text(), nil)
}

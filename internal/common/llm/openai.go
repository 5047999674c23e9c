package llm

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"pokemon-assistant/internal/common/config"
	"pokemon-assistant/internal/common/logger"
)

// OpenAI talks to any OpenAI compatible chat completion endpoint.
type OpenAI struct {
	client *openai.Client
	cfg    config.LLMConfig
	logger logger.Logger
}

func NewOpenAI(cfg config.LLMConfig, log logger.Logger) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: log,
	}
}

func (c *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := withTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{}
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: float32(c.cfg.Temperature),
		MaxTokens:   c.cfg.MaxTokens,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	var (
		text    string
		lastErr error
	)
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return observe(ProviderOpenAI, c.cfg.Model, start, "", ctx.Err())
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			lastErr = err
			c.logger.Warn("Chat completion attempt failed", map[string]interface{}{
				"attempt": attempt + 1,
				"error":   err.Error(),
			})
			if ctx.Err() != nil {
				return observe(ProviderOpenAI, c.cfg.Model, start, "", ctx.Err())
			}
			continue
		}
		if len(resp.Choices) > 0 {
			text = resp.Choices[0].Message.Content
		}
		lastErr = nil
		break
	}

	return observe(ProviderOpenAI, c.cfg.Model, start, text, lastErr)
}

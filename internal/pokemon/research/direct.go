package research

import (
	"context"
	"errors"

	"pokemon-assistant/internal/common/llm"
	"pokemon-assistant/internal/common/logger"
)

const directSystemPrompt = `You are a friendly Pokemon expert. Answer general questions directly and concisely.`

// DirectAnswerer answers general questions without any lookups.
type DirectAnswerer struct {
	completer llm.Completer
	logger    logger.Logger
}

func NewDirectAnswerer(completer llm.Completer, log logger.Logger) *DirectAnswerer {
	return &DirectAnswerer{
		completer: completer,
		logger:    logger.ForComponent(log, "direct-answer"),
	}
}

func (d *DirectAnswerer) Answer(ctx context.Context, question string) (*Answer, error) {
	text, err := d.completer.Complete(ctx, llm.Request{
		System: directSystemPrompt,
		Prompt: question,
	})
	if err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			return &Answer{Answer: NoInformationAnswer}, nil
		}
		d.logger.Error("Direct answer failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return &Answer{Answer: text}, nil
}

// Package classifier decides which handler should answer a question.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "pokemon-assistant/internal/common/errors"
	"pokemon-assistant/internal/common/llm"
	"pokemon-assistant/internal/common/logger"
	"pokemon-assistant/internal/common/validation"
)

// Category names the handler a question is routed to.
type Category string

const (
	CategoryDirectAnswer Category = "direct_answer"
	CategoryResearch     Category = "pokemon_research"
	CategoryData         Category = "pokemon_data"
	CategoryBattle       Category = "battle_analysis"
)

var aliases = map[string]Category{
	"direct_answer":    CategoryDirectAnswer,
	"direct":           CategoryDirectAnswer,
	"pokemon_research": CategoryResearch,
	"research":         CategoryResearch,
	"pokemon_data":     CategoryData,
	"data_lookup":      CategoryData,
	"battle_analysis":  CategoryBattle,
	"battle":           CategoryBattle,
}

// ParseCategory accepts canonical names and their short aliases.
func ParseCategory(s string) (Category, bool) {
	c, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// Classification is the classifier's decision for one question.
type Classification struct {
	Category   Category `json:"category"`
	Names      []string `json:"pokemon_names"`
	Confidence float64  `json:"confidence"`
}

// SystemPrompt instructs the model to answer with a single JSON object.
const SystemPrompt = `You are a Pokemon Knowledge Supervisor that determines how to best answer user questions.
Classify the question into exactly one category:
- "direct_answer": general knowledge you can answer without looking anything up
- "pokemon_data": asks for specific data (stats, types, height, weight, abilities) about ONE named Pokemon
- "battle_analysis": asks who would win a battle between TWO named Pokemon
- "pokemon_research": anything else about Pokemon that needs research or is ambiguous
Respond with only a JSON object: {"category": "...", "pokemon_names": ["lowercase names mentioned, at most two"], "confidence": 0.0-1.0}`

// LLMClassifier classifies questions with a language model.
type LLMClassifier struct {
	completer llm.Completer
	logger    logger.Logger
}

func NewLLMClassifier(completer llm.Completer, log logger.Logger) *LLMClassifier {
	return &LLMClassifier{
		completer: completer,
		logger:    logger.ForComponent(log, "classifier"),
	}
}

// Classify returns a ClassificationFailed StandardError for any model or
// parsing failure.
func (c *LLMClassifier) Classify(ctx context.Context, question string) (*Classification, error) {
	text, err := c.completer.Complete(ctx, llm.Request{
		System: SystemPrompt,
		Prompt: fmt.Sprintf("Classify this question: %s", question),
		JSON:   true,
	})
	if err != nil {
		return nil, apperrors.NewClassificationFailedError(err)
	}

	cls, err := Parse(text)
	if err != nil {
		c.logger.Warn("Unparseable classification", map[string]interface{}{
			"response": truncate(text, 200),
			"error":    err.Error(),
		})
		return nil, apperrors.NewClassificationFailedError(err)
	}

	c.logger.Debug("Question classified", map[string]interface{}{
		"category":   string(cls.Category),
		"names":      cls.Names,
		"confidence": cls.Confidence,
	})
	return cls, nil
}

// Parse extracts and validates the JSON classification object from raw
// model output, tolerating code fences and surrounding prose.
func Parse(text string) (*Classification, error) {
	doc := extractJSONObject(text)
	if doc == "" {
		return nil, errors.New("no JSON object in response")
	}

	if result := validation.ClassificationSchema.ValidateBytes([]byte(doc)); !result.Valid {
		return nil, fmt.Errorf("invalid classification: %s", result.Error())
	}

	var raw struct {
		Category   string   `json:"category"`
		Names      []string `json:"pokemon_names"`
		Confidence float64  `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return nil, fmt.Errorf("decode classification: %w", err)
	}

	category, ok := ParseCategory(raw.Category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q", raw.Category)
	}

	names := make([]string, 0, len(raw.Names))
	for _, n := range raw.Names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			names = append(names, n)
		}
	}

	return &Classification{
		Category:   category,
		Names:      names,
		Confidence: raw.Confidence,
	}, nil
}

func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

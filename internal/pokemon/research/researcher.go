// Package research answers open ended Pokemon questions, grounding the
// model on whatever PokeAPI data the question lets us fetch.
package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "pokemon-assistant/internal/common/errors"
	"pokemon-assistant/internal/common/llm"
	"pokemon-assistant/internal/common/logger"
	"pokemon-assistant/internal/pokemon/names"
	"pokemon-assistant/internal/pokemon/pokeapi"
)

// NoInformationAnswer is returned when the model produced nothing usable.
const NoInformationAnswer = "I don't have enough information to answer that question."

// Answer is a handler result that already carries the final answer text.
type Answer struct {
	Answer    string   `json:"answer"`
	Reasoning string   `json:"reasoning,omitempty"`
	Sources   []string `json:"sources,omitempty"`
}

// Fetcher resolves a name to its attributes.
type Fetcher interface {
	GetPokemon(ctx context.Context, name string) (*pokeapi.Pokemon, error)
}

const researchSystemPrompt = `You are a Pokemon researcher with access to data from the PokeAPI.
Always provide factual information based on the API results provided.
If no data is provided or it is insufficient, say so clearly and answer from general Pokemon knowledge, flagging uncertainty.
Keep responses concise.`

type Researcher struct {
	fetcher   Fetcher
	completer llm.Completer
	logger    logger.Logger
}

func NewResearcher(fetcher Fetcher, completer llm.Completer, log logger.Logger) *Researcher {
	return &Researcher{
		fetcher:   fetcher,
		completer: completer,
		logger:    logger.ForComponent(log, "researcher"),
	}
}

// Query answers question. Lookups that fail are passed to the model as
// notes; only a model failure with nothing fetched is returned as an error.
func (r *Researcher) Query(ctx context.Context, question string) (*Answer, error) {
	var (
		found []*pokeapi.Pokemon
		notes []string
	)
	for _, name := range names.ExtractAll(question) {
		p, err := r.fetcher.GetPokemon(ctx, name)
		if err != nil {
			notes = append(notes, apperrors.AsStandardError(err).Message)
			continue
		}
		found = append(found, p)
	}

	text, err := r.completer.Complete(ctx, llm.Request{
		System: researchSystemPrompt,
		Prompt: buildPrompt(question, found, notes),
	})
	sources := sourcesFor(found)

	if err != nil {
		r.logger.Warn("Research model call failed", map[string]interface{}{
			"error":   err.Error(),
			"fetched": len(found),
		})
		switch {
		case len(found) > 0:
			return &Answer{Answer: summarize(found), Sources: sources}, nil
		case errors.Is(err, llm.ErrEmptyResponse):
			return &Answer{Answer: NoInformationAnswer}, nil
		case len(notes) > 0:
			return &Answer{Answer: strings.Join(notes, " ")}, nil
		default:
			return nil, err
		}
	}

	r.logger.Info("Research completed", map[string]interface{}{
		"fetched": len(found),
		"notes":   len(notes),
	})
	return &Answer{Answer: text, Sources: sources}, nil
}

func buildPrompt(question string, found []*pokeapi.Pokemon, notes []string) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("User Question: %s", question))

	if len(found) > 0 {
		data, _ := json.MarshalIndent(found, "", "  ")
		parts = append(parts, "\nPokeAPI Data:")
		parts = append(parts, string(data))
	}

	if len(notes) > 0 {
		parts = append(parts, "\nLookup Notes:")
		for _, n := range notes {
			parts = append(parts, "- "+n)
		}
	}

	parts = append(parts, "\nAnswer:")
	return strings.Join(parts, "\n")
}

func summarize(found []*pokeapi.Pokemon) string {
	out := make([]string, 0, len(found))
	for _, p := range found {
		out = append(out, p.String())
	}
	return strings.Join(out, "\n\n")
}

func sourcesFor(found []*pokeapi.Pokemon) []string {
	if len(found) == 0 {
		return nil
	}
	out := make([]string, 0, len(found))
	for _, p := range found {
		out = append(out, fmt.Sprintf("pokeapi:pokemon/%s", strings.ToLower(p.Name)))
	}
	return out
}

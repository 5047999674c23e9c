// internal/pokemon/research/research_test.go
package research

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pokemon-assistant/internal/common/errors"
	"pokemon-assistant/internal/common/llm"
	"pokemon-assistant/internal/common/logger"
	"pokemon-assistant/internal/pokemon/pokeapi"
)

// ==========================
// Test Helpers
// ==========================

type mapFetcher map[string]*pokeapi.Pokemon

func (m mapFetcher) GetPokemon(ctx context.Context, name string) (*pokeapi.Pokemon, error) {
	if p, ok := m[name]; ok {
		return p, nil
	}
	return nil, apperrors.NewPokemonNotFoundError(name)
}

var eevee = &pokeapi.Pokemon{
	Name: "Eevee", ID: 133, Types: []string{"Normal"},
	Stats: map[string]int{"hp": 55, "speed": 55}, Height: 3, Weight: 65,
	Abilities: []string{"Run away", "Adaptability"},
}

func recordingCompleter(text string, err error, got *llm.Request) llm.Completer {
	return llm.CompleterFunc(func(ctx context.Context, req llm.Request) (string, error) {
		*got = req
		return text, err
	})
}

// ==========================
// Researcher
// ==========================

func TestResearcher_Query_GroundsPromptOnFetchedData(t *testing.T) {
	var got llm.Request
	r := NewResearcher(mapFetcher{"eevee": eevee}, recordingCompleter("Eevee is a Normal type.", nil, &got), logger.NewTestLogger(t))

	answer, err := r.Query(context.Background(), "Tell me about Eevee")
	require.NoError(t, err)

	assert.Equal(t, "Eevee is a Normal type.", answer.Answer)
	assert.Equal(t, []string{"pokeapi:pokemon/eevee"}, answer.Sources)
	assert.Contains(t, got.Prompt, "User Question: Tell me about Eevee")
	assert.Contains(t, got.Prompt, `"name": "Eevee"`)
	assert.Contains(t, got.System, "PokeAPI")
}

func TestResearcher_Query_NotFoundBecomesNote(t *testing.T) {
	var got llm.Request
	r := NewResearcher(mapFetcher{}, recordingCompleter("I could not find that Pokemon.", nil, &got), logger.NewTestLogger(t))

	answer, err := r.Query(context.Background(), "Tell me about Agumon")
	require.NoError(t, err)

	assert.Equal(t, "I could not find that Pokemon.", answer.Answer)
	assert.Contains(t, got.Prompt, "Pokemon 'agumon' not found. Please check the spelling.")
	assert.NotContains(t, got.Prompt, "PokeAPI Data:")
}

func TestResearcher_Query_NoNames(t *testing.T) {
	var got llm.Request
	r := NewResearcher(mapFetcher{}, recordingCompleter("Fire beats grass.", nil, &got), logger.NewTestLogger(t))

	answer, err := r.Query(context.Background(), "which types beat grass")
	require.NoError(t, err)
	assert.Equal(t, "Fire beats grass.", answer.Answer)
	assert.Nil(t, answer.Sources)
}

func TestResearcher_Query_ModelFailureFallsBackToData(t *testing.T) {
	var got llm.Request
	r := NewResearcher(mapFetcher{"eevee": eevee}, recordingCompleter("", errors.New("down"), &got), logger.NewTestLogger(t))

	answer, err := r.Query(context.Background(), "Tell me about Eevee")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(answer.Answer, "Eevee (#133)"))
}

func TestResearcher_Query_ModelFailureWithNotFound(t *testing.T) {
	var got llm.Request
	r := NewResearcher(mapFetcher{}, recordingCompleter("", errors.New("down"), &got), logger.NewTestLogger(t))

	answer, err := r.Query(context.Background(), "Tell me about Agumon")
	require.NoError(t, err)
	assert.Equal(t, "Pokemon 'agumon' not found. Please check the spelling.", answer.Answer)
}

func TestResearcher_Query_ModelFailureWithoutData(t *testing.T) {
	var got llm.Request
	r := NewResearcher(mapFetcher{}, recordingCompleter("", errors.New("down"), &got), logger.NewTestLogger(t))

	_, err := r.Query(context.Background(), "which types beat grass")
	require.Error(t, err)
}

func TestResearcher_Query_EmptyResponse(t *testing.T) {
	var got llm.Request
	empty := apperrors.NewLLMRequestFailedError("openai", llm.ErrEmptyResponse)
	r := NewResearcher(mapFetcher{}, recordingCompleter("", empty, &got), logger.NewTestLogger(t))

	answer, err := r.Query(context.Background(), "which types beat grass")
	require.NoError(t, err)
	assert.Equal(t, NoInformationAnswer, answer.Answer)
}

// ==========================
// DirectAnswerer
// ==========================

func TestDirectAnswerer_Answer(t *testing.T) {
	var got llm.Request
	d := NewDirectAnswerer(recordingCompleter("There are 18 types.", nil, &got), logger.NewTestLogger(t))

	answer, err := d.Answer(context.Background(), "How many types are there?")
	require.NoError(t, err)
	assert.Equal(t, "There are 18 types.", answer.Answer)
	assert.Equal(t, "How many types are there?", got.Prompt)
}

func TestDirectAnswerer_Answer_Error(t *testing.T) {
	var got llm.Request
	d := NewDirectAnswerer(recordingCompleter("", errors.New("down"), &got), logger.NewTestLogger(t))

	_, err := d.Answer(context.Background(), "hi")
	require.Error(t, err)
}

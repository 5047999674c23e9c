// internal/pokemon/router/router_test.go
package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apperrors "pokemon-assistant/internal/common/errors"
	"pokemon-assistant/internal/common/logger"
	"pokemon-assistant/internal/pokemon/battle"
	"pokemon-assistant/internal/pokemon/classifier"
	"pokemon-assistant/internal/pokemon/pokeapi"
	"pokemon-assistant/internal/pokemon/research"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ==========================
// Mock Definitions
// ==========================

type mockClassifier struct{ mock.Mock }

func (m *mockClassifier) Classify(ctx context.Context, question string) (*classifier.Classification, error) {
	args := m.Called(ctx, question)
	c, _ := args.Get(0).(*classifier.Classification)
	return c, args.Error(1)
}

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) GetPokemon(ctx context.Context, name string) (*pokeapi.Pokemon, error) {
	args := m.Called(ctx, name)
	p, _ := args.Get(0).(*pokeapi.Pokemon)
	return p, args.Error(1)
}

type mockPredictor struct{ mock.Mock }

func (m *mockPredictor) Predict(ctx context.Context, a, b string) (*battle.Verdict, error) {
	args := m.Called(ctx, a, b)
	v, _ := args.Get(0).(*battle.Verdict)
	return v, args.Error(1)
}

type mockResearcher struct{ mock.Mock }

func (m *mockResearcher) Query(ctx context.Context, question string) (*research.Answer, error) {
	args := m.Called(ctx, question)
	a, _ := args.Get(0).(*research.Answer)
	return a, args.Error(1)
}

type mockDirect struct{ mock.Mock }

func (m *mockDirect) Answer(ctx context.Context, question string) (*research.Answer, error) {
	args := m.Called(ctx, question)
	a, _ := args.Get(0).(*research.Answer)
	return a, args.Error(1)
}

type fixture struct {
	classifier *mockClassifier
	fetcher    *mockFetcher
	predictor  *mockPredictor
	research   *mockResearcher
	direct     *mockDirect
	router     *Router
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		classifier: &mockClassifier{},
		fetcher:    &mockFetcher{},
		predictor:  &mockPredictor{},
		research:   &mockResearcher{},
		direct:     &mockDirect{},
	}
	f.router = New(f.classifier, Handlers{
		Fetcher:   f.fetcher,
		Predictor: f.predictor,
		Research:  f.research,
		Direct:    f.direct,
	}, 0.7, logger.NewTestLogger(t), nil)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.classifier.AssertExpectations(t)
	f.fetcher.AssertExpectations(t)
	f.predictor.AssertExpectations(t)
	f.research.AssertExpectations(t)
	f.direct.AssertExpectations(t)
}

// ==========================
// Classify overrides
// ==========================

func TestRouter_Classify(t *testing.T) {
	tests := []struct {
		name           string
		question       string
		classification *classifier.Classification
		classifyErr    error
		wantCategory   classifier.Category
		wantNames      []string
		wantFallback   string
	}{
		{
			name:           "confident battle keeps its names",
			question:       "Who would win, Pikachu or Charizard?",
			classification: &classifier.Classification{Category: classifier.CategoryBattle, Names: []string{"pikachu", "charizard"}, Confidence: 0.95},
			wantCategory:   classifier.CategoryBattle,
			wantNames:      []string{"pikachu", "charizard"},
		},
		{
			name:           "battle with extra names keeps the first two",
			question:       "Pikachu vs Charizard vs Mewtwo?",
			classification: &classifier.Classification{Category: classifier.CategoryBattle, Names: []string{"pikachu", "charizard", "mewtwo"}, Confidence: 0.9},
			wantCategory:   classifier.CategoryBattle,
			wantNames:      []string{"pikachu", "charizard"},
		},
		{
			name:           "low confidence battle goes to research",
			question:       "Pikachu vs Charizard?",
			classification: &classifier.Classification{Category: classifier.CategoryBattle, Names: []string{"pikachu", "charizard"}, Confidence: 0.5},
			wantCategory:   classifier.CategoryResearch,
			wantNames:      []string{"pikachu", "charizard"},
			wantFallback:   ReasonLowConfidence,
		},
		{
			name:           "battle names filled by the extractor",
			question:       "Who wins between Squirtle and Bulbasaur?",
			classification: &classifier.Classification{Category: classifier.CategoryBattle, Names: []string{}, Confidence: 0.9},
			wantCategory:   classifier.CategoryBattle,
			wantNames:      []string{"squirtle", "bulbasaur"},
		},
		{
			name:           "battle with one name goes to research",
			question:       "who would win against pikachu",
			classification: &classifier.Classification{Category: classifier.CategoryBattle, Names: []string{"pikachu"}, Confidence: 0.9},
			wantCategory:   classifier.CategoryResearch,
			wantFallback:   ReasonMissingBattleName,
		},
		{
			name:           "data without a name goes to research",
			question:       "stats please",
			classification: &classifier.Classification{Category: classifier.CategoryData, Names: []string{}, Confidence: 0.9},
			wantCategory:   classifier.CategoryResearch,
			wantNames:      []string{},
			wantFallback:   ReasonMissingDataName,
		},
		{
			name:           "data name filled by the extractor",
			question:       "What are the stats of Bulbasaur?",
			classification: &classifier.Classification{Category: classifier.CategoryData, Names: []string{}, Confidence: 0.9},
			wantCategory:   classifier.CategoryData,
			wantNames:      []string{"bulbasaur"},
		},
		{
			name:         "classifier error goes to research",
			question:     "anything",
			classifyErr:  apperrors.NewClassificationFailedError(errors.New("bad json")),
			wantCategory: classifier.CategoryResearch,
			wantFallback: ReasonClassifierError,
		},
		{
			name:           "confidence at the threshold is accepted",
			question:       "How many types are there?",
			classification: &classifier.Classification{Category: classifier.CategoryDirectAnswer, Names: []string{}, Confidence: 0.7},
			wantCategory:   classifier.CategoryDirectAnswer,
			wantNames:      []string{},
		},
		{
			name:           "unknown category goes to research",
			question:       "hmm",
			classification: &classifier.Classification{Category: "trivia", Confidence: 0.99},
			wantCategory:   classifier.CategoryResearch,
			wantFallback:   ReasonUnknownCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.classifier.On("Classify", mock.Anything, tt.question).Return(tt.classification, tt.classifyErr)

			d := f.router.Classify(context.Background(), tt.question)

			assert.Equal(t, tt.wantCategory, d.Category)
			assert.Equal(t, tt.wantFallback, d.Fallback)
			if tt.wantNames != nil {
				assert.Equal(t, tt.wantNames, d.Names)
			}
			f.assertExpectations(t)
		})
	}
}

// ==========================
// Route
// ==========================

func TestRouter_Route_Battle(t *testing.T) {
	f := newFixture(t)
	q := "Who would win, Pikachu or Charizard?"
	f.classifier.On("Classify", mock.Anything, q).Return(&classifier.Classification{
		Category: classifier.CategoryBattle, Names: []string{"pikachu", "charizard"}, Confidence: 0.9,
	}, nil)
	f.predictor.On("Predict", mock.Anything, "pikachu", "charizard").Return(&battle.Verdict{
		Winner: "charizard", Reasoning: "Charizard outclasses Pikachu in stats.",
	}, nil)

	resp, err := f.router.Route(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "charizard would win the battle.", resp.Answer)
	require.NotNil(t, resp.Reasoning)
	assert.Equal(t, "Charizard outclasses Pikachu in stats.", *resp.Reasoning)
	assert.Equal(t, classifier.CategoryBattle, resp.Category)
	f.assertExpectations(t)
}

func TestRouter_Route_LowConfidenceBattleRunsResearchOnly(t *testing.T) {
	f := newFixture(t)
	q := "Pikachu vs Charizard?"
	f.classifier.On("Classify", mock.Anything, q).Return(&classifier.Classification{
		Category: classifier.CategoryBattle, Names: []string{"pikachu", "charizard"}, Confidence: 0.5,
	}, nil)
	f.research.On("Query", mock.Anything, q).Return(&research.Answer{Answer: "Hard to say."}, nil)

	resp, err := f.router.Route(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "Hard to say.", resp.Answer)
	assert.Nil(t, resp.Reasoning)
	assert.Equal(t, classifier.CategoryResearch, resp.Category)
	f.predictor.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestRouter_Route_ClassifierErrorNeverSurfaces(t *testing.T) {
	f := newFixture(t)
	f.classifier.On("Classify", mock.Anything, "hi").Return(nil, errors.New("model down"))
	f.research.On("Query", mock.Anything, "hi").Return(&research.Answer{Answer: "Hello!"}, nil)

	resp, err := f.router.Route(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", resp.Answer)
	f.assertExpectations(t)
}

func TestRouter_Route_DataStringified(t *testing.T) {
	f := newFixture(t)
	q := "What type is Pikachu?"
	pikachu := &pokeapi.Pokemon{Name: "Pikachu", ID: 25, Types: []string{"Electric"}, Stats: map[string]int{"speed": 90}}
	f.classifier.On("Classify", mock.Anything, q).Return(&classifier.Classification{
		Category: classifier.CategoryData, Names: []string{"pikachu"}, Confidence: 0.9,
	}, nil)
	f.fetcher.On("GetPokemon", mock.Anything, "pikachu").Return(pikachu, nil)

	resp, err := f.router.Route(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, pikachu.String(), resp.Answer)
	assert.Nil(t, resp.Reasoning)
	f.assertExpectations(t)
}

func TestRouter_Route_NotFoundBecomesAnswer(t *testing.T) {
	t.Run("data", func(t *testing.T) {
		f := newFixture(t)
		q := "Tell me about Agumon"
		f.classifier.On("Classify", mock.Anything, q).Return(&classifier.Classification{
			Category: classifier.CategoryData, Names: []string{"agumon"}, Confidence: 0.9,
		}, nil)
		f.fetcher.On("GetPokemon", mock.Anything, "agumon").Return(nil, apperrors.NewPokemonNotFoundError("agumon"))

		resp, err := f.router.Route(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, "Pokemon 'agumon' not found. Please check the spelling.", resp.Answer)
	})

	t.Run("battle", func(t *testing.T) {
		f := newFixture(t)
		q := "Agumon vs Pikachu"
		f.classifier.On("Classify", mock.Anything, q).Return(&classifier.Classification{
			Category: classifier.CategoryBattle, Names: []string{"agumon", "pikachu"}, Confidence: 0.9,
		}, nil)
		f.predictor.On("Predict", mock.Anything, "agumon", "pikachu").Return(nil, apperrors.NewPokemonNotFoundError("agumon"))

		resp, err := f.router.Route(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, "Pokemon 'agumon' not found. Please check the spelling.", resp.Answer)
	})
}

func TestRouter_Route_HandlerErrorPropagates(t *testing.T) {
	f := newFixture(t)
	q := "How many types are there?"
	f.classifier.On("Classify", mock.Anything, q).Return(&classifier.Classification{
		Category: classifier.CategoryDirectAnswer, Confidence: 0.9,
	}, nil)
	f.direct.On("Answer", mock.Anything, q).Return(nil, apperrors.NewLLMTimeoutError("openai"))

	_, err := f.router.Route(context.Background(), q)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrLLMTimeout)
}

// ==========================
// Normalize
// ==========================

func TestNormalize(t *testing.T) {
	reasoning := func(s string) *string { return &s }

	tests := []struct {
		name    string
		outcome interface{}
		want    *Response
	}{
		{
			name:    "verdict",
			outcome: &battle.Verdict{Winner: "pikachu", Reasoning: "Speed."},
			want:    &Response{Answer: "pikachu would win the battle.", Reasoning: reasoning("Speed.")},
		},
		{
			name:    "undetermined verdict",
			outcome: &battle.Verdict{Winner: battle.Undetermined, Reasoning: "Too close."},
			want:    &Response{Answer: "The winner of this battle could not be determined.", Reasoning: reasoning("Too close.")},
		},
		{
			name:    "answer passes through",
			outcome: &research.Answer{Answer: "Fire beats grass."},
			want:    &Response{Answer: "Fire beats grass."},
		},
		{
			name:    "answer with reasoning",
			outcome: &research.Answer{Answer: "Yes.", Reasoning: "Because."},
			want:    &Response{Answer: "Yes.", Reasoning: reasoning("Because.")},
		},
		{
			name:    "plain map is stringified",
			outcome: map[string]int{"hp": 35},
			want:    &Response{Answer: `{"hp":35}`},
		},
		{
			name:    "string",
			outcome: "hello",
			want:    &Response{Answer: "hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.outcome))
		})
	}
}

// Package battle predicts the winner of a one-on-one Pokemon battle.
package battle

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	apperrors "pokemon-assistant/internal/common/errors"
	"pokemon-assistant/internal/common/llm"
	"pokemon-assistant/internal/common/logger"
	"pokemon-assistant/internal/common/metrics"
	"pokemon-assistant/internal/common/observability"
	"pokemon-assistant/internal/pokemon/pokeapi"
	"pokemon-assistant/internal/pokemon/stats"
	"pokemon-assistant/internal/pokemon/typechart"
)

// Fetcher resolves a name to its attributes.
type Fetcher interface {
	GetPokemon(ctx context.Context, name string) (*pokeapi.Pokemon, error)
}

// Reasoner turns a structured analysis into a free text verdict.
type Reasoner interface {
	Compare(ctx context.Context, analysis *Analysis) (string, error)
}

type Predictor struct {
	fetcher  Fetcher
	reasoner Reasoner
	logger   logger.Logger
	obs      *observability.Observability
}

func NewPredictor(fetcher Fetcher, reasoner Reasoner, log logger.Logger, obs *observability.Observability) *Predictor {
	return &Predictor{
		fetcher:  fetcher,
		reasoner: reasoner,
		logger:   logger.ForComponent(log, "battle-predictor"),
		obs:      obs,
	}
}

// Analyze fetches both Pokemon and computes the matchups and stat
// comparison. A not-found lookup on either side is returned unchanged.
func (p *Predictor) Analyze(ctx context.Context, nameA, nameB string) (*Analysis, error) {
	nameA, nameB = strings.TrimSpace(nameA), strings.TrimSpace(nameB)
	if nameA == "" || nameB == "" {
		return nil, apperrors.NewInvalidRequestError("Two Pokemon names are required", "pokemon1 and pokemon2 must be non-empty")
	}

	a, err := p.fetcher.GetPokemon(ctx, nameA)
	if err != nil {
		return nil, err
	}
	b, err := p.fetcher.GetPokemon(ctx, nameB)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		NameA:      nameA,
		NameB:      nameB,
		A:          a,
		B:          b,
		AttacksOnB: typechart.Matchup(a.Types, b.Types),
		AttacksOnA: typechart.Matchup(b.Types, a.Types),
		Stats:      stats.Compare(a.Stats, b.Stats),
	}, nil
}

// Predict runs the full analysis and asks the reasoner for a verdict.
func (p *Predictor) Predict(ctx context.Context, nameA, nameB string) (verdict *Verdict, err error) {
	ctx, span := p.obs.StartSpan(ctx, "battle.predict",
		attribute.String("pokemon1", nameA),
		attribute.String("pokemon2", nameB),
	)
	defer func() { observability.EndSpan(span, err) }()

	analysis, err := p.Analyze(ctx, nameA, nameB)
	if err != nil {
		p.logger.Info("Battle analysis aborted", map[string]interface{}{
			"pokemon1": nameA,
			"pokemon2": nameB,
			"error":    err.Error(),
		})
		return nil, err
	}

	text, err := p.reasoner.Compare(ctx, analysis)
	if err != nil {
		p.logger.Error("Reasoner failed", map[string]interface{}{
			"pokemon1": analysis.NameA,
			"pokemon2": analysis.NameB,
			"error":    err.Error(),
		})
		return nil, apperrors.NewBattleAnalysisFailedError(analysis.NameA, analysis.NameB, err)
	}

	verdict = &Verdict{
		Winner:    ResolveWinner(text, analysis.NameA, analysis.NameB),
		Reasoning: text,
	}

	outcome := "decided"
	if !verdict.IsDetermined() {
		outcome = "undetermined"
	}
	metrics.BattleVerdicts.WithLabelValues(outcome).Inc()
	span.SetAttributes(attribute.String("winner", verdict.Winner))

	p.logger.Info("Battle predicted", map[string]interface{}{
		"pokemon1": analysis.NameA,
		"pokemon2": analysis.NameB,
		"winner":   verdict.Winner,
	})
	return verdict, nil
}

// LLMReasoner asks a language model for the verdict.
type LLMReasoner struct {
	completer llm.Completer
}

func NewLLMReasoner(completer llm.Completer) *LLMReasoner {
	return &LLMReasoner{completer: completer}
}

func (r *LLMReasoner) Compare(ctx context.Context, analysis *Analysis) (string, error) {
	return r.completer.Complete(ctx, llm.Request{
		System: SystemPrompt,
		Prompt: BuildPrompt(analysis),
	})
}

// ReasonerFunc adapts a function to Reasoner.
type ReasonerFunc func(ctx context.Context, analysis *Analysis) (string, error)

func (f ReasonerFunc) Compare(ctx context.Context, analysis *Analysis) (string, error) {
	return f(ctx, analysis)
}

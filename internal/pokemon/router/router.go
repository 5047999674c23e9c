// Package router dispatches a question to exactly one handler based on the
// classifier's decision, redirecting to research whenever that decision is
// unreliable or incomplete.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "pokemon-assistant/internal/common/errors"
	"pokemon-assistant/internal/common/logger"
	"pokemon-assistant/internal/common/metrics"
	"pokemon-assistant/internal/common/observability"
	"pokemon-assistant/internal/pokemon/battle"
	"pokemon-assistant/internal/pokemon/classifier"
	"pokemon-assistant/internal/pokemon/names"
	"pokemon-assistant/internal/pokemon/pokeapi"
	"pokemon-assistant/internal/pokemon/research"
)

// Fallback reasons, also used as the RouterFallbacks metric label.
const (
	ReasonClassifierError   = "classifier_error"
	ReasonLowConfidence     = "low_confidence"
	ReasonMissingBattleName = "missing_battle_names"
	ReasonMissingDataName   = "missing_data_name"
	ReasonUnknownCategory   = "unknown_category"
)

// DefaultThreshold is used when New is given a non-positive threshold.
const DefaultThreshold = 0.7

type Classifier interface {
	Classify(ctx context.Context, question string) (*classifier.Classification, error)
}

type Fetcher interface {
	GetPokemon(ctx context.Context, name string) (*pokeapi.Pokemon, error)
}

type Predictor interface {
	Predict(ctx context.Context, nameA, nameB string) (*battle.Verdict, error)
}

type Researcher interface {
	Query(ctx context.Context, question string) (*research.Answer, error)
}

type DirectAnswerer interface {
	Answer(ctx context.Context, question string) (*research.Answer, error)
}

// Handlers groups the four terminal handlers.
type Handlers struct {
	Fetcher   Fetcher
	Predictor Predictor
	Research  Researcher
	Direct    DirectAnswerer
}

// Response is the normalized answer handed back to callers.
type Response struct {
	Answer    string              `json:"answer"`
	Reasoning *string             `json:"reasoning"`
	Category  classifier.Category `json:"-"`
}

// Decision is the routing decision after overrides have been applied.
type Decision struct {
	Category   classifier.Category
	Names      []string
	Confidence float64
	// Fallback is set when the decision was redirected to research.
	Fallback string
}

type Router struct {
	classifier Classifier
	handlers   Handlers
	threshold  float64
	logger     logger.Logger
	obs        *observability.Observability
}

func New(c Classifier, h Handlers, threshold float64, log logger.Logger, obs *observability.Observability) *Router {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Router{
		classifier: c,
		handlers:   h,
		threshold:  threshold,
		logger:     logger.ForComponent(log, "router"),
		obs:        obs,
	}
}

// Classify asks the classifier and applies the overrides. It never fails.
func (r *Router) Classify(ctx context.Context, question string) Decision {
	c, err := r.classifier.Classify(ctx, question)
	if err != nil {
		r.logger.Warn("Classifier failed, routing to research", map[string]interface{}{
			"error": err.Error(),
		})
		return r.fallback(Decision{}, ReasonClassifierError)
	}

	d := Decision{
		Category:   c.Category,
		Names:      c.Names,
		Confidence: c.Confidence,
	}

	if d.Confidence < r.threshold {
		return r.fallback(d, ReasonLowConfidence)
	}

	switch d.Category {
	case classifier.CategoryBattle:
		if len(d.Names) < 2 {
			d.Names = names.ExtractPair(question)
		}
		if len(d.Names) < 2 {
			return r.fallback(d, ReasonMissingBattleName)
		}
		d.Names = d.Names[:2]
	case classifier.CategoryData:
		if len(d.Names) == 0 {
			if single := names.ExtractSingle(question); single != "" {
				d.Names = []string{single}
			}
		}
		if len(d.Names) == 0 || d.Names[0] == "" {
			return r.fallback(d, ReasonMissingDataName)
		}
	case classifier.CategoryDirectAnswer, classifier.CategoryResearch:
	default:
		return r.fallback(d, ReasonUnknownCategory)
	}
	return d
}

func (r *Router) fallback(d Decision, reason string) Decision {
	metrics.RouterFallbacks.WithLabelValues(reason).Inc()
	r.logger.Info("Routing to research", map[string]interface{}{
		"reason":     reason,
		"category":   string(d.Category),
		"confidence": d.Confidence,
	})
	d.Category = classifier.CategoryResearch
	d.Fallback = reason
	return d
}

// Route classifies question, runs the chosen handler and normalizes its
// output. Errors come only from the handler that ran.
func (r *Router) Route(ctx context.Context, question string) (resp *Response, err error) {
	start := time.Now()
	ctx, span := r.obs.StartSpan(ctx, "router.route",
		attribute.String("project", r.obs.ChatProject()),
	)
	defer func() { observability.EndSpan(span, err) }()

	d := r.Classify(ctx, question)
	span.SetAttributes(attribute.String("category", string(d.Category)))

	outcome, err := r.dispatch(ctx, d, question)
	if err != nil {
		r.logger.Error("Handler failed", map[string]interface{}{
			"category": string(d.Category),
			"error":    err.Error(),
		})
		return nil, err
	}

	resp = Normalize(outcome)
	resp.Category = d.Category

	elapsed := time.Since(start)
	metrics.QuestionsRouted.WithLabelValues(string(d.Category)).Inc()
	metrics.RouteDuration.WithLabelValues(string(d.Category)).Observe(elapsed.Seconds())
	r.obs.RecordQuestion(ctx, string(d.Category), elapsed)

	r.logger.Info("Question routed", map[string]interface{}{
		"category": string(d.Category),
		"names":    d.Names,
		"duration": elapsed.String(),
	})
	return resp, nil
}

func (r *Router) dispatch(ctx context.Context, d Decision, question string) (interface{}, error) {
	switch d.Category {
	case classifier.CategoryDirectAnswer:
		return r.handlers.Direct.Answer(ctx, question)

	case classifier.CategoryData:
		p, err := r.handlers.Fetcher.GetPokemon(ctx, d.Names[0])
		if apperrors.IsNotFound(err) {
			return &research.Answer{Answer: apperrors.AsStandardError(err).Message}, nil
		}
		if err != nil {
			return nil, err
		}
		return p, nil

	case classifier.CategoryBattle:
		v, err := r.handlers.Predictor.Predict(ctx, d.Names[0], d.Names[1])
		if apperrors.IsNotFound(err) {
			return &research.Answer{Answer: apperrors.AsStandardError(err).Message}, nil
		}
		if err != nil {
			return nil, err
		}
		return v, nil

	default:
		return r.handlers.Research.Query(ctx, question)
	}
}

// Normalize shapes any handler outcome into a Response.
func Normalize(outcome interface{}) *Response {
	switch o := outcome.(type) {
	case *battle.Verdict:
		reasoning := o.Reasoning
		answer := fmt.Sprintf("%s would win the battle.", o.Winner)
		if !o.IsDetermined() {
			answer = "The winner of this battle could not be determined."
		}
		return &Response{Answer: answer, Reasoning: &reasoning}
	case *research.Answer:
		resp := &Response{Answer: o.Answer}
		if o.Reasoning != "" {
			reasoning := o.Reasoning
			resp.Reasoning = &reasoning
		}
		return resp
	case *Response:
		return o
	case string:
		return &Response{Answer: o}
	case fmt.Stringer:
		return &Response{Answer: o.String()}
	default:
		data, err := json.Marshal(o)
		if err != nil {
			return &Response{Answer: fmt.Sprintf("%v", o)}
		}
		return &Response{Answer: string(data)}
	}
}

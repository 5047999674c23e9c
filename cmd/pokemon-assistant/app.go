package main

import (
	"context"
	"fmt"

	"pokemon-assistant/internal/common/config"
	"pokemon-assistant/internal/common/llm"
	"pokemon-assistant/internal/common/logger"
	"pokemon-assistant/internal/common/observability"
	"pokemon-assistant/internal/pokemon/battle"
	"pokemon-assistant/internal/pokemon/classifier"
	"pokemon-assistant/internal/pokemon/pokeapi"
	"pokemon-assistant/internal/pokemon/research"
	"pokemon-assistant/internal/pokemon/router"
)

// app holds the wired domain services shared by every command.
type app struct {
	cfg       *config.Config
	log       logger.Logger
	obs       *observability.Observability
	pokeapi   *pokeapi.Client
	predictor *battle.Predictor
	router    *router.Router
}

func newApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	obs := observability.New(cfg.Tracing, log)

	completer, err := llm.New(ctx, cfg.LLM, log)
	if err != nil {
		obs.Shutdown(ctx)
		return nil, fmt.Errorf("init llm: %w", err)
	}

	client := pokeapi.NewClient(cfg.PokeAPI, log)
	predictor := battle.NewPredictor(client, battle.NewLLMReasoner(completer), log, obs)

	r := router.New(classifier.NewLLMClassifier(completer, log), router.Handlers{
		Fetcher:   client,
		Predictor: predictor,
		Research:  research.NewResearcher(client, completer, log),
		Direct:    research.NewDirectAnswerer(completer, log),
	}, cfg.Router.ConfidenceThreshold, log, obs)

	return &app{
		cfg:       cfg,
		log:       log,
		obs:       obs,
		pokeapi:   client,
		predictor: predictor,
		router:    r,
	}, nil
}

func (a *app) Close(ctx context.Context) {
	a.obs.Shutdown(ctx)
}

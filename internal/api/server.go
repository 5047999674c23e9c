// Package api exposes the assistant over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pokemon-assistant/internal/common/config"
	"pokemon-assistant/internal/common/logger"
	"pokemon-assistant/internal/common/observability"
	"pokemon-assistant/internal/pokemon/battle"
	"pokemon-assistant/internal/pokemon/pokeapi"
	"pokemon-assistant/internal/pokemon/router"
)

// WelcomeMessage is served from the root route.
const WelcomeMessage = "Welcome to the Pokemon API! Check out /api/chat and /api/battle to get started."

type Asker interface {
	Route(ctx context.Context, question string) (*router.Response, error)
}

type BattlePredictor interface {
	Predict(ctx context.Context, nameA, nameB string) (*battle.Verdict, error)
}

type PokemonLookup interface {
	GetPokemon(ctx context.Context, name string) (*pokeapi.Pokemon, error)
	ComparePokemon(ctx context.Context, names []string) []pokeapi.LookupResult
}

// Dependencies are the domain services the handlers call.
type Dependencies struct {
	Asker     Asker
	Predictor BattlePredictor
	Lookup    PokemonLookup
	// Ready, when set, gates /ready on an upstream dependency such as the
	// Zeebe broker.
	Ready func(ctx context.Context) error
}

type Server struct {
	cfg    config.ServerConfig
	deps   Dependencies
	logger logger.Logger
	obs    *observability.Observability
	router *chi.Mux
}

func NewServer(cfg config.ServerConfig, deps Dependencies, log logger.Logger, obs *observability.Observability) *Server {
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger.ForComponent(log, "api"),
		obs:    obs,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(time.Duration(s.cfg.RequestTimeout) * time.Millisecond))
	}

	r.Get("/", s.handleRoot)
	mountOps(r, s.deps.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Get("/battle", s.handleBattle)
		r.Post("/chat", s.handleChat)
		r.Get("/pokemon", s.handleComparePokemon)
		r.Get("/pokemon/{name}", s.handleGetPokemon)
		r.Get("/types/effectiveness", s.handleTypeEffectiveness)
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// OpsHandler serves only health, readiness and metrics, for a separate
// metrics port.
func OpsHandler(ready func(ctx context.Context) error) http.Handler {
	r := chi.NewRouter()
	mountOps(r, ready)
	return r
}

func mountOps(r chi.Router, ready func(ctx context.Context) error) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			if err := ready(r.Context()); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Handle("/metrics", promhttp.Handler())
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Millisecond,
		IdleTimeout:  60 * time.Second,
	}
	return serve(ctx, httpServer, s.shutdownTimeout(), s.logger)
}

// ListenAndServeOps runs OpsHandler on the metrics port until ctx is cancelled.
func (s *Server) ListenAndServeOps(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.MetricsPort),
		Handler:           OpsHandler(s.deps.Ready),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return serve(ctx, httpServer, s.shutdownTimeout(), s.logger)
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.cfg.ShutdownTimeout) * time.Millisecond
}

func serve(ctx context.Context, httpServer *http.Server, grace time.Duration, log logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", map[string]interface{}{"addr": httpServer.Addr})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server", map[string]interface{}{"addr": httpServer.Addr})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown %s: %w", httpServer.Addr, err)
	}
	return nil
}

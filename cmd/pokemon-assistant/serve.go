package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pokemon-assistant/internal/api"
	"pokemon-assistant/internal/common/camunda"
	"pokemon-assistant/internal/common/config"
	answerquestion "pokemon-assistant/internal/workers/pokemon/answer-question"
	predictbattle "pokemon-assistant/internal/workers/pokemon/predict-battle"
)

func newServeCmd(opts *options) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when enabled, the Zeebe job workers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, flush, err := opts.load()
			if err != nil {
				return err
			}
			defer flush()
			if port > 0 {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			deps := api.Dependencies{
				Asker:     a.router,
				Predictor: a.predictor,
				Lookup:    a.pokeapi,
			}

			if cfg.Camunda.Enabled {
				workers, err := a.startWorkers(ctx)
				if err != nil {
					return err
				}
				defer workers.Close()
				deps.Ready = workers.HealthCheck
			}

			server := api.NewServer(cfg.Server, deps, log, a.obs)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return server.ListenAndServe(ctx) })
			if cfg.Server.MetricsPort > 0 && cfg.Server.MetricsPort != cfg.Server.Port {
				g.Go(func() error { return server.ListenAndServeOps(ctx) })
			}

			log.Info("pokemon-assistant started", map[string]interface{}{
				"port":        cfg.Server.Port,
				"metricsPort": cfg.Server.MetricsPort,
				"provider":    cfg.LLM.ProviderName(),
				"workers":     cfg.Camunda.Enabled,
			})
			return g.Wait()
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (overrides server.port)")
	return cmd
}

// workerSet is the running Zeebe client and its workers.
type workerSet struct {
	client  *camunda.Client
	workers *camunda.Workers
}

func (w *workerSet) HealthCheck(ctx context.Context) error {
	return w.client.HealthCheck(ctx)
}

func (w *workerSet) Close() {
	w.workers.Close()
}

func (a *app) startWorkers(ctx context.Context) (*workerSet, error) {
	client, err := camunda.Connect(ctx, camunda.ConfigFrom(a.cfg.Camunda), a.log)
	if err != nil {
		return nil, fmt.Errorf("zeebe: %w", err)
	}
	workers := camunda.NewWorkers(client, a.log)

	answerCfg := config.GetWorkerConfig(a.cfg, answerquestion.TaskType)
	workers.Start(answerquestion.TaskType, answerCfg, answerquestion.NewHandler(
		answerquestion.LoadConfig(answerCfg), a.router, a.log, a.obs,
	))

	battleCfg := config.GetWorkerConfig(a.cfg, predictbattle.TaskType)
	workers.Start(predictbattle.TaskType, battleCfg, predictbattle.NewHandler(
		predictbattle.LoadConfig(battleCfg), a.predictor, a.log, a.obs,
	))

	return &workerSet{client: client, workers: workers}, nil
}

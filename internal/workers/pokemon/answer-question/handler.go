// internal/workers/pokemon/answer-question/handler.go
package answerquestion

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"pokemon-assistant/internal/common/errors"
	"pokemon-assistant/internal/common/logger"
	"pokemon-assistant/internal/common/metrics"
	"pokemon-assistant/internal/common/observability"
	"pokemon-assistant/internal/common/validation"
	"pokemon-assistant/internal/pokemon/router"
)

const TaskType = "pokemon-answer-question"

type Asker interface {
	Route(ctx context.Context, question string) (*router.Response, error)
}

type Handler struct {
	config     *Config
	asker      Asker
	logger     logger.Logger
	errHandler *errors.ErrorHandler
	obs        *observability.Observability
}

func NewHandler(config *Config, asker Asker, log logger.Logger, obs *observability.Observability) *Handler {
	l := logger.ForComponent(log, "worker").WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		asker:      asker,
		logger:     l,
		errHandler: errors.NewErrorHandler(l),
		obs:        obs,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := parseInput(job.GetVariables())
	if err != nil {
		h.failJob(ctx, client, job, err, startTime)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err, startTime)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "completed", time.Since(startTime))
}

// Execute answers the question through the router.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	resp, err := h.asker.Route(ctx, input.Question)
	if err != nil {
		return nil, err
	}
	return &Output{
		Answer:    resp.Answer,
		Reasoning: resp.Reasoning,
		Category:  string(resp.Category),
	}, nil
}

func parseInput(variables string) (*Input, error) {
	if result := validation.ChatRequestSchema.ValidateBytes([]byte(variables)); !result.Valid {
		return nil, errors.NewInvalidRequestError("Input validation failed", result.Error())
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidRequestError("Failed to parse job variables", err.Error())
	}
	return &input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.GetKey()).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err.Error()})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, startTime time.Time) {
	code := string(errors.AsStandardError(err).Code)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, code).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed", time.Since(startTime))
	h.errHandler.HandleJobError(ctx, client, job, err)
}

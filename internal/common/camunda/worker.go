// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"pokemon-assistant/internal/common/config"
	"pokemon-assistant/internal/common/logger"
)

// JobHandler processes a single activated job and completes or fails it.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Workers tracks the job workers opened on one client.
type Workers struct {
	client  *Client
	logger  logger.Logger
	workers map[string]worker.JobWorker
}

func NewWorkers(client *Client, log logger.Logger) *Workers {
	return &Workers{
		client:  client,
		logger:  logger.ForComponent(log, "workers"),
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a worker for taskType unless it is disabled. It reports
// whether a worker was opened.
func (w *Workers) Start(taskType string, wcfg config.WorkerConfig, handler JobHandler) bool {
	if !wcfg.Enabled {
		w.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	step := w.client.Raw().NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle)
	if wcfg.MaxJobsActive > 0 {
		step = step.MaxJobsActive(wcfg.MaxJobsActive)
	}
	if wcfg.Timeout > 0 {
		step = step.Timeout(time.Duration(wcfg.Timeout) * time.Millisecond)
	}
	w.workers[taskType] = step.Open()

	w.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// Close stops every worker and then the client.
func (w *Workers) Close() {
	for taskType, jw := range w.workers {
		w.logger.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		jw.Close()
	}
	if err := w.client.Close(); err != nil {
		w.logger.Error("Error closing Zeebe client", map[string]interface{}{"error": err.Error()})
	}
}

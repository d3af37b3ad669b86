// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"sync"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"intelcorp/internal/common/config"
	"intelcorp/internal/common/logger"
	"intelcorp/internal/common/metrics"
)

// JobRecorder receives per-job outcomes, typically the otel meter.
type JobRecorder interface {
	RecordJobProcessed(ctx context.Context, taskType, status string)
	RecordJobDuration(ctx context.Context, taskType string, d time.Duration, status string)
}

// Workers owns the job workers opened by the manager.
type Workers struct {
	client   zbc.Client
	recorder JobRecorder
	logger   logger.Logger

	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewWorkers(client zbc.Client, recorder JobRecorder, log logger.Logger) *Workers {
	return &Workers{
		client:   client,
		recorder: recorder,
		logger:   log,
		workers:  make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for taskType unless it is disabled. It reports
// whether a worker was opened.
func (w *Workers) Start(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) bool {
	if !wcfg.Enabled {
		w.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	jw := w.client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, w.recorder, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	w.mu.Lock()
	w.workers[taskType] = jw
	w.mu.Unlock()

	w.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// Count returns the number of open workers.
func (w *Workers) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.workers)
}

// Close stops every worker and waits for in-flight jobs.
func (w *Workers) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for taskType, jw := range w.workers {
		w.logger.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		jw.Close()
		jw.AwaitClose()
	}
	w.workers = make(map[string]worker.JobWorker)
}

// Instrument wraps a handler with the active-jobs gauge, the duration
// histogram and, when recorder is set, the otel job meter.
func Instrument(taskType string, recorder JobRecorder, handler worker.JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		started := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer func() {
			elapsed := time.Since(started)
			metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
			if recorder != nil {
				recorder.RecordJobProcessed(context.Background(), taskType, "handled")
				recorder.RecordJobDuration(context.Background(), taskType, elapsed, "handled")
			}
		}()
		handler(client, job)
	}
}

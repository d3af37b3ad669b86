// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"intelcorp/internal/common/camunda"
	"intelcorp/internal/common/config"
	"intelcorp/internal/common/logger"
	"intelcorp/internal/common/observability"
	"intelcorp/internal/intel/pipeline"
	"intelcorp/pkg/registry"

	ca "intelcorp/internal/workers/intel/company-analyze"
	cs "intelcorp/internal/workers/intel/company-search"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("oracle", cfg.Oracle.Provider),
		zap.String("screening", cfg.Screening.Backend),
	)

	if err := config.ValidateForWorkers(cfg); err != nil {
		zapLog.Fatal("invalid worker configuration", zap.Error(err))
	}

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel meter unavailable, continuing without it", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx := context.Background()

	pl, closePipeline, err := pipeline.FromConfig(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("pipeline setup failed", zap.Error(err))
	}
	defer closePipeline()

	activities, err := registry.LoadRegistry(cfg.ActivityRegistryPath)
	if err != nil {
		zapLog.Warn("activity registry unavailable, job input will not be schema-checked",
			zap.String("path", cfg.ActivityRegistryPath),
			zap.Error(err),
		)
	}

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	workers := camunda.NewWorkers(zeebe.Zeebe(), obs, log)

	// Company Search
	if taskType := cs.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		hcfg := cs.LoadConfig()
		activity, _ := activities.Find(taskType)
		if d, ok := activity.HandlerTimeout(); ok {
			hcfg.Timeout = d
		}
		handler := cs.NewHandler(hcfg, pl, activity, &companySearchLoggerAdapter{log})
		workers.Start(taskType, wcfg, handler.Handle)
	}

	// Company Analyze
	if taskType := ca.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		hcfg := ca.LoadConfig()
		activity, _ := activities.Find(taskType)
		if d, ok := activity.HandlerTimeout(); ok {
			hcfg.Timeout = d
		}
		handler := ca.NewHandler(hcfg, pl, activity, &companyAnalyzeLoggerAdapter{log})
		workers.Start(taskType, wcfg, handler.Handle)
	}
	zapLog.Info("Workers registered", zap.Int("count", workers.Count()))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := zeebe.HealthCheck(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: cfg.Metrics.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Logger adapters for workers that have their own Logger interfaces
type companySearchLoggerAdapter struct {
	logger.Logger
}

func (a *companySearchLoggerAdapter) With(fields map[string]interface{}) cs.Logger {
	return &companySearchLoggerAdapter{a.Logger.With(fields)}
}

type companyAnalyzeLoggerAdapter struct {
	logger.Logger
}

func (a *companyAnalyzeLoggerAdapter) With(fields map[string]interface{}) ca.Logger {
	return &companyAnalyzeLoggerAdapter{a.Logger.With(fields)}
}

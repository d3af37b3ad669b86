// internal/workers/intel/company-analyze/handler.go
package companyanalyze

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "intelcorp/internal/common/errors"
	"intelcorp/internal/models"
	"intelcorp/pkg/registry"
)

const (
	TaskType = "company-analyze"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Analyzer is the pipeline's analyze operation.
type Analyzer interface {
	Analyze(ctx context.Context, name, country string) models.Analysis
}

type Handler struct {
	config     *Config
	analyzer   Analyzer
	activity   *registry.Activity
	errHandler *apperrors.ErrorHandler
	logger     Logger
}

func NewHandler(config *Config, analyzer Analyzer, activity *registry.Activity, log Logger) *Handler {
	l := log.With(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:     config,
		analyzer:   analyzer,
		activity:   activity,
		errHandler: apperrors.NewErrorHandler(l),
		logger:     l,
	}
}

// Handle completes the job with the full analysis. When enrichment fails the
// job throws ENRICHMENT_UNAVAILABLE instead, carrying the screening result
// and verdict as variables so the process can still route on them.
func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := h.parseInput(job.Variables)
	if err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		var partial map[string]interface{}
		if output != nil {
			partial = map[string]interface{}{
				"requestId": output.RequestID,
				"sanctions": output.Sanctions,
				"verdict":   output.Verdict,
			}
		}
		h.errHandler.HandleJobErrorWithVariables(context.Background(), client, job, err, partial)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) parseInput(variables string) (*Input, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &raw); err != nil {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	if err := h.activity.ValidateInput(raw); err != nil {
		return nil, err
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

// execute returns the output even alongside an error, so screening survives
// an enrichment failure.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, apperrors.NewInvalidInputError("input cannot be nil")
	}

	a := h.analyzer.Analyze(ctx, input.Name, input.Country)
	output := &Output{
		RequestID:        a.RequestID,
		Profile:          a.Profile,
		ProfileAvailable: a.ProfileAvailable(),
		Sanctions:        a.Sanctions,
		Verdict:          a.Verdict,
	}

	h.logger.Info("analysis finished", map[string]interface{}{
		"requestId":   a.RequestID,
		"finalScore":  a.Verdict.FinalScore,
		"finalTier":   string(a.Verdict.FinalTier),
		"companyHits": a.Sanctions.CompanyHitCount,
		"profile":     output.ProfileAvailable,
	})

	if a.EnrichmentError != nil {
		return output, a.EnrichmentError
	}
	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}

	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
	}
}

// Execute method for direct usage
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

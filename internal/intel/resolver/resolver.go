// Package resolver picks the candidate list for a query: registry first, AI
// suggestions only when the registry yields nothing.
package resolver

import (
	"context"

	apperrors "intelcorp/internal/common/errors"
	"intelcorp/internal/common/logger"
	"intelcorp/internal/common/metrics"
	"intelcorp/internal/models"
)

// RegistrySearcher is the authoritative tier.
type RegistrySearcher interface {
	Search(ctx context.Context, query, jurisdiction string) ([]models.CompanyCandidate, error)
}

// Suggester is the fallback tier.
type Suggester interface {
	Suggest(ctx context.Context, query, jurisdiction string) ([]models.CompanyCandidate, error)
}

// tierOutcome is the result of one tier. A failed tier carries err and no
// candidates.
type tierOutcome struct {
	candidates []models.CompanyCandidate
	err        error
}

func (o tierOutcome) usable() bool {
	return len(o.candidates) > 0
}

type Resolver struct {
	registry  RegistrySearcher
	suggester Suggester
	logger    logger.Logger
}

func New(registry RegistrySearcher, suggester Suggester, log logger.Logger) *Resolver {
	return &Resolver{
		registry:  registry,
		suggester: suggester,
		logger:    log.With(map[string]interface{}{"component": "resolver"}),
	}
}

// Resolve never fails: tier failures degrade to the next tier and finally
// to an empty NONE result.
func (r *Resolver) Resolve(ctx context.Context, q models.Query) models.SearchResult {
	reg := r.runTier(ctx, "registry", q, r.registry.Search)
	if reg.usable() {
		return r.result(reg.candidates, models.ProvenanceRegistry)
	}

	ai := r.runTier(ctx, "suggester", q, r.suggester.Suggest)
	if ai.usable() {
		return r.result(ai.candidates, models.ProvenanceAISuggested)
	}

	metrics.SearchesTotal.WithLabelValues(string(models.ProvenanceNone)).Inc()
	return models.EmptySearch()
}

func (r *Resolver) runTier(
	ctx context.Context,
	source string,
	q models.Query,
	call func(context.Context, string, string) ([]models.CompanyCandidate, error),
) tierOutcome {
	candidates, err := call(ctx, q.Text, q.Jurisdiction)
	if err != nil {
		code := apperrors.CodeOf(err)
		metrics.TierFailures.WithLabelValues(source, string(code)).Inc()
		log := r.logger.Warn
		if code == apperrors.ErrCodeEmptyResult {
			log = r.logger.Info
		}
		log("tier produced no candidates", map[string]interface{}{
			"source":    source,
			"errorCode": string(code),
			"error":     err.Error(),
			"query":     q.Text,
		})
		return tierOutcome{err: err}
	}
	return tierOutcome{candidates: candidates}
}

func (r *Resolver) result(candidates []models.CompanyCandidate, p models.Provenance) models.SearchResult {
	metrics.SearchesTotal.WithLabelValues(string(p)).Inc()
	return models.SearchResult{Candidates: candidates, Provenance: p}
}

// Package pipeline exposes the two consumer operations: Search and Analyze.
package pipeline

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "intelcorp/internal/common/errors"
	"intelcorp/internal/common/logger"
	"intelcorp/internal/common/metrics"
	"intelcorp/internal/intel/query"
	"intelcorp/internal/intel/risk"
	"intelcorp/internal/intel/screening"
	"intelcorp/internal/models"
)

const tracerName = "intelcorp/pipeline"

// Resolver turns a normalized query into candidates.
type Resolver interface {
	Resolve(ctx context.Context, q models.Query) models.SearchResult
}

// Enricher produces the AI dossier for one subject.
type Enricher interface {
	Enrich(ctx context.Context, name, country string) (*models.EnrichedProfile, error)
}

// Screener runs the two sanctions lookups. Both halves absorb their own
// failures.
type Screener interface {
	Company(ctx context.Context, name string) screening.Hits
	Person(ctx context.Context, name string) screening.Hits
}

type Options struct {
	// ParallelLookups runs enrichment and both screenings concurrently.
	// When false they run in the order enrichment, company, person.
	ParallelLookups bool
}

type Pipeline struct {
	resolver Resolver
	enricher Enricher
	screener Screener
	opts     Options
	tracer   trace.Tracer
	logger   logger.Logger
}

func New(r Resolver, e Enricher, s Screener, opts Options, log logger.Logger) *Pipeline {
	return &Pipeline{
		resolver: r,
		enricher: e,
		screener: s,
		opts:     opts,
		tracer:   otel.Tracer(tracerName),
		logger:   log.With(map[string]interface{}{"component": "pipeline"}),
	}
}

// Search returns an empty NONE result without any provider call when the
// query is shorter than two characters.
func (p *Pipeline) Search(ctx context.Context, text, jurisdiction string) models.SearchResult {
	q, ok := query.Normalize(text, jurisdiction)
	if !ok {
		return models.EmptySearch()
	}

	ctx, span := p.tracer.Start(ctx, "pipeline.Search", trace.WithAttributes(
		attribute.String("query", q.Text),
		attribute.String("jurisdiction", q.Jurisdiction),
	))
	defer span.End()

	result := p.resolver.Resolve(ctx, q)
	span.SetAttributes(
		attribute.String("provenance", string(result.Provenance)),
		attribute.Int("candidates", len(result.Candidates)),
	)
	return result
}

// Analyze enriches and screens one subject and aggregates the verdict. It
// never fails as a whole: a missing profile is reported in EnrichmentError
// and screening is still surfaced.
func (p *Pipeline) Analyze(ctx context.Context, name, country string) models.Analysis {
	a := models.Analysis{
		RequestID: uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Country:   strings.TrimSpace(country),
	}
	log := p.logger.With(map[string]interface{}{"requestId": a.RequestID, "company": a.Name})

	ctx, span := p.tracer.Start(ctx, "pipeline.Analyze", trace.WithAttributes(
		attribute.String("request.id", a.RequestID),
		attribute.String("company", a.Name),
	))
	defer span.End()

	if a.Name == "" {
		a.Sanctions = screening.Combine(screening.Hits{Records: []models.ListingRecord{}}, screening.Hits{Records: []models.ListingRecord{}})
		a.EnrichmentError = apperrors.NewInvalidQueryError("company name is empty")
		a.Verdict = risk.FromProfile(nil, a.Sanctions)
		span.SetStatus(codes.Error, a.EnrichmentError.Error())
		return a
	}

	var (
		profile         *models.EnrichedProfile
		enrichErr       error
		company, person screening.Hits
	)

	enrichStep := func() { profile, enrichErr = p.enricher.Enrich(ctx, a.Name, a.Country) }
	companyStep := func() { company = p.screener.Company(ctx, a.Name) }
	personStep := func() { person = p.screener.Person(ctx, a.Name) }

	if p.opts.ParallelLookups {
		var g errgroup.Group
		for _, step := range []func(){enrichStep, companyStep, personStep} {
			step := step
			g.Go(func() error {
				step()
				return nil
			})
		}
		_ = g.Wait()
	} else {
		enrichStep()
		companyStep()
		personStep()
	}

	a.Sanctions = screening.Combine(company, person)
	if enrichErr != nil || profile == nil {
		a.EnrichmentError = apperrors.NewEnrichmentUnavailableError(enrichErr)
		profile = nil
		span.SetStatus(codes.Error, a.EnrichmentError.Error())
		log.Warn("enrichment unavailable", map[string]interface{}{
			"errorCode": string(apperrors.CodeOf(enrichErr)),
			"error":     a.EnrichmentError,
		})
	}
	a.Profile = profile
	a.Verdict = risk.FromProfile(profile, a.Sanctions)

	profileLabel := "available"
	if a.Profile == nil {
		profileLabel = "unavailable"
	}
	metrics.AnalysesTotal.WithLabelValues(string(a.Verdict.FinalTier), profileLabel).Inc()
	span.SetAttributes(
		attribute.Int("verdict.score", a.Verdict.FinalScore),
		attribute.String("verdict.tier", string(a.Verdict.FinalTier)),
		attribute.Int("sanctions.company_hits", a.Sanctions.CompanyHitCount),
	)

	log.Info("analysis complete", map[string]interface{}{
		"finalScore":  a.Verdict.FinalScore,
		"finalTier":   string(a.Verdict.FinalTier),
		"companyHits": a.Sanctions.CompanyHitCount,
		"personHits":  a.Sanctions.PersonHitCount,
		"profile":     profileLabel,
	})
	return a
}

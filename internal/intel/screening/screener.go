package screening

import (
	"context"
	"time"

	apperrors "intelcorp/internal/common/errors"
	"intelcorp/internal/common/logger"
	"intelcorp/internal/common/metrics"
	"intelcorp/internal/models"
)

// Screener runs bounded lookups and absorbs their failures: a failed half
// reports zero hits.
type Screener struct {
	index   Index
	timeout time.Duration
	logger  logger.Logger
}

// NewScreener wraps index. A non-positive timeout uses the 8s default.
func NewScreener(index Index, timeout time.Duration, log logger.Logger) *Screener {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Screener{
		index:   index,
		timeout: timeout,
		logger:  log.With(map[string]interface{}{"source": Source}),
	}
}

// Company looks name up as a company-type entity.
func (s *Screener) Company(ctx context.Context, name string) Hits {
	return s.lookup(ctx, name, SchemaCompany)
}

// Person looks name up as a person-type entity.
func (s *Screener) Person(ctx context.Context, name string) Hits {
	return s.lookup(ctx, name, SchemaPerson)
}

// Screen runs both lookups one after the other.
func (s *Screener) Screen(ctx context.Context, name string) models.SanctionsResult {
	return Combine(s.Company(ctx, name), s.Person(ctx, name))
}

// Combine assembles the two halves into a SanctionsResult.
func Combine(company, person Hits) models.SanctionsResult {
	return models.SanctionsResult{
		CompanyHitCount: company.Total,
		CompanyHits:     company.Records,
		PersonHitCount:  person.Total,
		PersonHits:      person.Records,
	}
}

func (s *Screener) lookup(ctx context.Context, name, schema string) Hits {
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	hits, err := s.index.Search(ctx, name, schema)
	metrics.ProviderCallDuration.WithLabelValues(Source).Observe(time.Since(started).Seconds())
	if err != nil {
		code := apperrors.CodeOf(err)
		metrics.TierFailures.WithLabelValues(Source, string(code)).Inc()
		s.logger.Warn("screening lookup failed, reporting no exposure", map[string]interface{}{
			"schema":    schema,
			"errorCode": string(code),
			"error":     err,
		})
		return Hits{Records: []models.ListingRecord{}}
	}

	if hits.Total < 0 {
		hits.Total = 0
	}
	if hits.Records == nil {
		hits.Records = []models.ListingRecord{}
	}
	if len(hits.Records) > models.MaxListingHits {
		hits.Records = hits.Records[:models.MaxListingHits]
	}
	return hits
}

package pipeline

import (
	"context"
	"fmt"

	"intelcorp/internal/common/config"
	"intelcorp/internal/common/logger"
	"intelcorp/internal/intel/country"
	"intelcorp/internal/intel/enrich"
	"intelcorp/internal/intel/oracle"
	"intelcorp/internal/intel/registry"
	"intelcorp/internal/intel/resolver"
	"intelcorp/internal/intel/screening"
	"intelcorp/internal/intel/suggest"
)

// FromConfig wires every provider named in cfg. The returned func releases
// provider resources and is never nil.
func FromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (*Pipeline, func(), error) {
	countries := country.DefaultTable()

	o, closeOracle, err := oracle.New(ctx, cfg.Oracle)
	if err != nil {
		return nil, func() {}, fmt.Errorf("oracle: %w", err)
	}

	index, err := screening.NewIndex(cfg.Screening)
	if err != nil {
		closeOracle()
		return nil, func() {}, fmt.Errorf("screening index: %w", err)
	}

	res := resolver.New(
		registry.NewClient(cfg.Registry, countries),
		suggest.New(o, countries, log),
		log,
	)
	p := New(
		res,
		enrich.NewEngine(o, log),
		screening.NewScreener(index, config.GetDuration(cfg.Screening.Timeout), log),
		Options{ParallelLookups: cfg.Pipeline.ParallelLookups},
		log,
	)
	return p, closeOracle, nil
}

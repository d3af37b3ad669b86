// Package screening looks a name up in a sanctions/PEP index, once as a
// company and once as a person.
package screening

import (
	"context"
	"fmt"
	"time"

	"intelcorp/internal/common/config"
	"intelcorp/internal/common/database"
	"intelcorp/internal/models"
)

const Source = "screening"

// Entity schemas understood by the index.
const (
	SchemaCompany = "Company"
	SchemaPerson  = "Person"
)

const defaultTimeout = 8 * time.Second

// Hits is one lookup: the index's total match count and its leading records
// in index order.
type Hits struct {
	Total   int
	Records []models.ListingRecord
}

// Index is a sanctions/PEP search backend.
type Index interface {
	Search(ctx context.Context, name, schema string) (Hits, error)
}

// NewIndex builds the backend selected by cfg.Backend.
func NewIndex(cfg config.ScreeningConfig) (Index, error) {
	switch cfg.Backend {
	case "", config.ScreeningBackendHTTP:
		return NewHTTPIndex(cfg), nil
	case config.ScreeningBackendElasticsearch:
		es, err := database.NewElasticsearch(cfg.Elasticsearch, nil)
		if err != nil {
			return nil, err
		}
		return NewElasticIndex(es, cfg.Elasticsearch.Index), nil
	default:
		return nil, fmt.Errorf("unknown screening backend %q", cfg.Backend)
	}
}

func timeoutOf(cfg config.ScreeningConfig) time.Duration {
	if d := config.GetDuration(cfg.Timeout); d > 0 {
		return d
	}
	return defaultTimeout
}

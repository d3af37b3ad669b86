package screening

import (
	"context"
	"encoding/json"

	apperrors "intelcorp/internal/common/errors"
	"intelcorp/internal/common/database"
	"intelcorp/internal/models"
)

// ElasticIndex searches a self-hosted copy of the sanctions data loaded into
// Elasticsearch, one document per entity in the OpenSanctions shape.
type ElasticIndex struct {
	es    *database.ElasticsearchClient
	index string
}

func NewElasticIndex(es *database.ElasticsearchClient, index string) *ElasticIndex {
	if index == "" {
		index = "opensanctions"
	}
	return &ElasticIndex{es: es, index: index}
}

func (i *ElasticIndex) Search(ctx context.Context, name, schema string) (Hits, error) {
	res, err := i.es.Search(ctx, i.index, buildQuery(name, schema))
	if err != nil {
		return Hits{}, apperrors.NewTransportError(Source, err)
	}

	hits := Hits{Total: res.Hits.Total.Value, Records: make([]models.ListingRecord, 0, models.MaxListingHits)}
	for _, h := range res.Hits.Hits {
		if len(hits.Records) == models.MaxListingHits {
			break
		}
		var e entity
		if err := json.Unmarshal(h.Source, &e); err != nil {
			return Hits{}, apperrors.NewDecodeError(Source, err)
		}
		if e.ID == "" {
			e.ID = h.ID
		}
		hits.Records = append(hits.Records, e.record())
	}
	return hits, nil
}

func buildQuery(name, schema string) map[string]interface{} {
	return map[string]interface{}{
		"size":             models.MaxListingHits,
		"track_total_hits": true,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  name,
						"fields": []string{"caption^2", "names"},
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"schema": schema},
				},
			},
		},
	}
}

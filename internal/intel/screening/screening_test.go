package screening

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intelcorp/internal/common/config"
	"intelcorp/internal/common/database"
	apperrors "intelcorp/internal/common/errors"
	"intelcorp/internal/common/logger"
	"intelcorp/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func results(n int) []map[string]interface{} {
	out := make([]map[string]interface{}, n)
	for i := range out {
		out[i] = map[string]interface{}{
			"id":       fmt.Sprintf("NK-%d", i),
			"caption":  fmt.Sprintf("Rosneft entity %d", i),
			"schema":   "Company",
			"datasets": []string{"us_ofac_sdn", "eu_fsf"},
			"properties": map[string]interface{}{
				"topics": []string{"sanction"},
			},
		}
	}
	return out
}

func openSanctionsServer(t *testing.T, totals map[string]int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/default", r.URL.Path)
		assert.Equal(t, "Rosneft", r.URL.Query().Get("q"))
		assert.Equal(t, "ApiKey secret", r.Header.Get("Authorization"))

		total := totals[r.URL.Query().Get("schema")]
		json.NewEncoder(w).Encode(map[string]interface{}{
			"total":   map[string]interface{}{"value": total},
			"results": results(total),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

type indexFunc func(ctx context.Context, name, schema string) (Hits, error)

func (f indexFunc) Search(ctx context.Context, name, schema string) (Hits, error) {
	return f(ctx, name, schema)
}

// ==========================
// HTTP Index Tests
// ==========================

func TestHTTPIndex_Search(t *testing.T) {
	srv := openSanctionsServer(t, map[string]int{SchemaCompany: 3, SchemaPerson: 7})
	idx := NewHTTPIndex(config.ScreeningConfig{BaseURL: srv.URL + "/", APIKey: "secret"})

	company, err := idx.Search(context.Background(), "Rosneft", SchemaCompany)
	require.NoError(t, err)
	assert.Equal(t, 3, company.Total)
	require.Len(t, company.Records, 3)
	assert.Equal(t, "NK-0", company.Records[0].ID)
	assert.Equal(t, []string{"sanction"}, company.Records[0].Topics)
	assert.Equal(t, []string{"us_ofac_sdn", "eu_fsf"}, company.Records[0].Datasets)

	person, err := idx.Search(context.Background(), "Rosneft", SchemaPerson)
	require.NoError(t, err)
	assert.Equal(t, 7, person.Total)
	assert.Len(t, person.Records, models.MaxListingHits)
	assert.Equal(t, "NK-4", person.Records[4].ID)
}

func TestHTTPIndex_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewHTTPIndex(config.ScreeningConfig{BaseURL: srv.URL}).Search(context.Background(), "Acme", SchemaCompany)
	assert.True(t, stderrors.Is(err, apperrors.ErrTransport))
}

// ==========================
// Elasticsearch Index Tests
// ==========================

func TestElasticIndex_Search(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		assert.True(t, strings.HasPrefix(r.URL.Path, "/sanctions/_search"), r.URL.Path)

		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))

		hits := make([]map[string]interface{}, 0, 6)
		for i, src := range results(6) {
			hits = append(hits, map[string]interface{}{"_id": fmt.Sprintf("doc-%d", i), "_source": src})
		}
		delete(hits[0]["_source"].(map[string]interface{}), "id")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"hits": map[string]interface{}{
				"total": map[string]interface{}{"value": 42, "relation": "eq"},
				"hits":  hits,
			},
		})
	}))
	defer srv.Close()

	es, err := database.NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}}, nil)
	require.NoError(t, err)

	hits, err := NewElasticIndex(es, "sanctions").Search(context.Background(), "Rosneft", SchemaCompany)
	require.NoError(t, err)
	assert.Equal(t, 42, hits.Total)
	require.Len(t, hits.Records, models.MaxListingHits)
	assert.Equal(t, "doc-0", hits.Records[0].ID)
	assert.Equal(t, "NK-1", hits.Records[1].ID)

	assert.Equal(t, true, body["track_total_hits"])
	filter := body["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"]
	assert.Equal(t, SchemaCompany, filter.(map[string]interface{})["term"].(map[string]interface{})["schema"])
}

func TestElasticIndex_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"index_not_found_exception"}`))
	}))
	defer srv.Close()

	es, err := database.NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL}, nil)
	require.NoError(t, err)

	_, err = NewElasticIndex(es, "").Search(context.Background(), "Acme", SchemaPerson)
	assert.True(t, stderrors.Is(err, apperrors.ErrTransport))
}

func TestNewIndex(t *testing.T) {
	idx, err := NewIndex(config.ScreeningConfig{})
	require.NoError(t, err)
	assert.IsType(t, &HTTPIndex{}, idx)

	idx, err = NewIndex(config.ScreeningConfig{
		Backend:       config.ScreeningBackendElasticsearch,
		Elasticsearch: config.ElasticsearchConfig{Addresses: []string{"http://localhost:9200"}},
	})
	require.NoError(t, err)
	assert.IsType(t, &ElasticIndex{}, idx)

	_, err = NewIndex(config.ScreeningConfig{Backend: "ldap"})
	assert.Error(t, err)
}

// ==========================
// Screener Tests
// ==========================

func TestScreener_Screen(t *testing.T) {
	srv := openSanctionsServer(t, map[string]int{SchemaCompany: 3, SchemaPerson: 0})
	s := NewScreener(NewHTTPIndex(config.ScreeningConfig{BaseURL: srv.URL, APIKey: "secret"}), 0, logger.NewTestLogger(t))

	res := s.Screen(context.Background(), "Rosneft")
	assert.Equal(t, 3, res.CompanyHitCount)
	assert.Len(t, res.CompanyHits, 3)
	assert.Equal(t, 0, res.PersonHitCount)
	assert.NotNil(t, res.PersonHits)
	assert.Empty(t, res.PersonHits)
}

func TestScreener_FailureDegradesToNoExposure(t *testing.T) {
	idx := indexFunc(func(ctx context.Context, name, schema string) (Hits, error) {
		if schema == SchemaPerson {
			return Hits{}, apperrors.NewTransportError(Source, stderrors.New("connection refused"))
		}
		return Hits{Total: 1, Records: []models.ListingRecord{{ID: "x", Caption: "Acme"}}}, nil
	})

	res := NewScreener(idx, time.Second, logger.NewTestLogger(t)).Screen(context.Background(), "Acme")
	assert.Equal(t, 1, res.CompanyHitCount)
	assert.Equal(t, 0, res.PersonHitCount)
	assert.Empty(t, res.PersonHits)
}

func TestScreener_TimeoutBoundsLookup(t *testing.T) {
	idx := indexFunc(func(ctx context.Context, name, schema string) (Hits, error) {
		<-ctx.Done()
		return Hits{}, apperrors.NewTransportError(Source, ctx.Err())
	})

	started := time.Now()
	hits := NewScreener(idx, 20*time.Millisecond, logger.NewNoOpLogger()).Company(context.Background(), "Acme")
	assert.Less(t, time.Since(started), 2*time.Second)
	assert.Equal(t, 0, hits.Total)
}

func TestScreener_TruncatesOversizedHits(t *testing.T) {
	idx := indexFunc(func(ctx context.Context, name, schema string) (Hits, error) {
		return Hits{Total: 9, Records: make([]models.ListingRecord, 9)}, nil
	})

	hits := NewScreener(idx, time.Second, logger.NewNoOpLogger()).Person(context.Background(), "Acme")
	assert.Equal(t, 9, hits.Total)
	assert.Len(t, hits.Records, models.MaxListingHits)
}

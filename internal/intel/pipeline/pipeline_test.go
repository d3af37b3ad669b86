package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intelcorp/internal/common/config"
	apperrors "intelcorp/internal/common/errors"
	"intelcorp/internal/common/logger"
	"intelcorp/internal/intel/screening"
	"intelcorp/internal/models"
)

// ==========================
// Fake Providers
// ==========================

type providers struct {
	registryCalls  int32
	oracleCalls    int32
	screeningCalls int32

	registryBody   string
	suggestAnswer  string
	enrichAnswer   string
	companyTotal   int
	registryStatus int

	registry  *httptest.Server
	oracle    *httptest.Server
	screening *httptest.Server
}

func newProviders(t *testing.T) *providers {
	t.Helper()
	p := &providers{
		registryBody:   `{"results":{"companies":[]}}`,
		registryStatus: http.StatusOK,
	}

	p.registry = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&p.registryCalls, 1)
		w.WriteHeader(p.registryStatus)
		w.Write([]byte(p.registryBody))
	}))

	p.oracle = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&p.oracleCalls, 1)
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		answer := p.enrichAnswer
		if len(req.Messages) > 0 && strings.HasPrefix(req.Messages[0].Content, "List real companies") {
			answer = p.suggestAnswer
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{{"message": map[string]string{"role": "assistant", "content": answer}}},
		})
	}))

	p.screening = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&p.screeningCalls, 1)
		total := 0
		results := []map[string]interface{}{}
		if r.URL.Query().Get("schema") == screening.SchemaCompany {
			total = p.companyTotal
			for i := 0; i < total; i++ {
				results = append(results, map[string]interface{}{
					"id": "ofac-" + string(rune('a'+i)), "caption": "Rosneft", "schema": "Company",
					"datasets":   []string{"us_ofac_sdn"},
					"properties": map[string]interface{}{"topics": []string{"sanction"}},
				})
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"total":   map[string]int{"value": total},
			"results": results,
		})
	}))

	t.Cleanup(func() {
		p.registry.Close()
		p.oracle.Close()
		p.screening.Close()
	})
	return p
}

func (p *providers) config(parallel bool) *config.Config {
	return &config.Config{
		Registry:  config.RegistryConfig{BaseURL: p.registry.URL, Timeout: 6000, PerPage: 12, UserAgent: "test"},
		Oracle:    config.OracleConfig{Provider: config.OracleProviderGroq, BaseURL: p.oracle.URL, Model: "test-model"},
		Screening: config.ScreeningConfig{Backend: config.ScreeningBackendHTTP, BaseURL: p.screening.URL, Timeout: 8000},
		Pipeline:  config.PipelineConfig{ParallelLookups: parallel},
	}
}

func (p *providers) calls() int32 {
	return atomic.LoadInt32(&p.registryCalls) + atomic.LoadInt32(&p.oracleCalls) + atomic.LoadInt32(&p.screeningCalls)
}

func buildPipeline(t *testing.T, p *providers, parallel bool) *Pipeline {
	t.Helper()
	pl, closeFn, err := FromConfig(context.Background(), p.config(parallel), logger.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(closeFn)
	return pl
}

const glencoreRegistry = `{"results":{"companies":[{"company":{
	"name":"Glencore International AG","company_number":"CHE-105.843.451",
	"jurisdiction_code":"ch","registered_address":{"locality":"Baar"},
	"current_status":"Active","incorporation_date":"1994-03-14","company_type":"AG",
	"opencorporates_url":"https://opencorporates.com/companies/ch/CHE-105.843.451"}}]}}`

const rosneftDossier = "```json\n" + `{"nom_complet":"Rosneft Oil Company","pays":"Russia","score_risque":40,"niveau_risque":"MODERE","dirigeants":[{"nom":"Igor Sechin","poste":"CEO"}],"red_flags":[{"niveau":"rouge","titre":"Sanctions"}]}` + "\n```"

// ==========================
// Search Tests
// ==========================

func TestPipeline_Search_ShortQueryMakesNoCalls(t *testing.T) {
	p := newProviders(t)
	pl := buildPipeline(t, p, true)

	for _, text := range []string{"", " ", "G", "  é  "} {
		res := pl.Search(context.Background(), text, "ch")
		assert.Equal(t, models.ProvenanceNone, res.Provenance)
		assert.Empty(t, res.Candidates)
	}
	assert.Equal(t, int32(0), p.calls())
}

func TestPipeline_Search_ScenarioA_Registry(t *testing.T) {
	p := newProviders(t)
	p.registryBody = glencoreRegistry
	p.suggestAnswer = `[{"nom":"Should Not Be Used"}]`

	res := buildPipeline(t, p, true).Search(context.Background(), "  Glencore ", "")
	require.Equal(t, models.ProvenanceRegistry, res.Provenance)
	require.Len(t, res.Candidates, 1)

	c := res.Candidates[0]
	assert.Equal(t, "Glencore International AG", c.Name)
	assert.Equal(t, "Active", c.Status)
	assert.Equal(t, "Switzerland", c.CountryLabel)
	assert.Equal(t, "🇨🇭", c.FlagGlyph)
	assert.Equal(t, "Baar", c.City)
	assert.Equal(t, int32(0), atomic.LoadInt32(&p.oracleCalls))
}

func TestPipeline_Search_ScenarioB_AIFallback(t *testing.T) {
	p := newProviders(t)
	p.suggestAnswer = "```json\n" + `[{"nom":"Obscure Shell Co Ltd","pays":"Cayman Islands","pays_code":"ky","ville":"George Town","secteur":"Holding"}]` + "\n```"

	res := buildPipeline(t, p, true).Search(context.Background(), "Obscure Shell Co", "")
	require.Equal(t, models.ProvenanceAISuggested, res.Provenance)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "🇰🇾", res.Candidates[0].FlagGlyph)
	assert.Equal(t, "", res.Candidates[0].RegistrationNumber)
	assert.Equal(t, int32(1), atomic.LoadInt32(&p.registryCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&p.oracleCalls))
}

func TestPipeline_Search_RegistryFailureFallsBack(t *testing.T) {
	p := newProviders(t)
	p.registryStatus = http.StatusServiceUnavailable
	p.suggestAnswer = `[{"nom":"Acme Trading SA","pays_code":"ch"}]`

	res := buildPipeline(t, p, true).Search(context.Background(), "Acme", "ch")
	assert.Equal(t, models.ProvenanceAISuggested, res.Provenance)
	assert.Len(t, res.Candidates, 1)
}

func TestPipeline_Search_MalformedSuggestionsGiveNone(t *testing.T) {
	p := newProviders(t)
	p.suggestAnswer = "```json\n[{\"nom\":\"Acme\"},"

	res := buildPipeline(t, p, true).Search(context.Background(), "Acme", "")
	assert.Equal(t, models.ProvenanceNone, res.Provenance)
	assert.NotNil(t, res.Candidates)
	assert.Empty(t, res.Candidates)
}

// ==========================
// Analyze Tests
// ==========================

func TestPipeline_Analyze_ScenarioC_SanctionsOverride(t *testing.T) {
	for _, parallel := range []bool{true, false} {
		p := newProviders(t)
		p.enrichAnswer = rosneftDossier
		p.companyTotal = 3

		a := buildPipeline(t, p, parallel).Analyze(context.Background(), "Rosneft", "Russia")

		require.NoError(t, a.EnrichmentError)
		require.NotNil(t, a.Profile)
		assert.NotEmpty(t, a.RequestID)
		assert.Equal(t, 40, a.Profile.AIRiskScore)
		assert.Equal(t, models.RiskTierModerate, a.Profile.AIRiskTier)
		assert.Equal(t, 3, a.Sanctions.CompanyHitCount)
		assert.Len(t, a.Sanctions.CompanyHits, 3)
		assert.Equal(t, models.RiskVerdict{FinalScore: 75, FinalTier: models.RiskTierHigh}, a.Verdict)
		assert.Equal(t, int32(2), atomic.LoadInt32(&p.screeningCalls))
	}
}

func TestPipeline_Analyze_Idempotent(t *testing.T) {
	p := newProviders(t)
	p.enrichAnswer = rosneftDossier
	p.companyTotal = 1
	pl := buildPipeline(t, p, true)

	first := pl.Analyze(context.Background(), "Rosneft", "Russia")
	second := pl.Analyze(context.Background(), "Rosneft", "Russia")

	assert.Equal(t, first.Verdict, second.Verdict)
	assert.Equal(t, first.Profile, second.Profile)
	assert.Equal(t, first.Sanctions, second.Sanctions)
	assert.NotEqual(t, first.RequestID, second.RequestID)
}

func TestPipeline_Analyze_MalformedDossier(t *testing.T) {
	p := newProviders(t)
	p.enrichAnswer = `{"nom_complet":"Acme"} -- let me know if you need more`
	p.companyTotal = 2

	a := buildPipeline(t, p, true).Analyze(context.Background(), "Acme", "")

	assert.Nil(t, a.Profile)
	assert.False(t, a.ProfileAvailable())
	assert.True(t, stderrors.Is(a.EnrichmentError, apperrors.ErrEnrichmentUnavailable))
	assert.True(t, stderrors.Is(a.EnrichmentError, apperrors.ErrDecode))
	assert.Equal(t, 2, a.Sanctions.CompanyHitCount)
	assert.Equal(t, models.RiskVerdict{FinalScore: 75, FinalTier: models.RiskTierHigh}, a.Verdict)
}

func TestPipeline_Analyze_EmptyNameMakesNoCalls(t *testing.T) {
	p := newProviders(t)
	a := buildPipeline(t, p, true).Analyze(context.Background(), "   ", "France")

	assert.True(t, stderrors.Is(a.EnrichmentError, apperrors.ErrInvalidQuery))
	assert.Nil(t, a.Profile)
	assert.Equal(t, models.RiskVerdict{FinalScore: 0, FinalTier: models.RiskTierModerate}, a.Verdict)
	assert.Equal(t, int32(0), p.calls())
}

// ==========================
// Orchestration Tests
// ==========================

type recordingDeps struct {
	mu    sync.Mutex
	order []string
}

func (r *recordingDeps) record(step string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, step)
}

func (r *recordingDeps) Resolve(ctx context.Context, q models.Query) models.SearchResult {
	r.record("resolve")
	return models.EmptySearch()
}

func (r *recordingDeps) Enrich(ctx context.Context, name, country string) (*models.EnrichedProfile, error) {
	r.record("enrich")
	return &models.EnrichedProfile{Source: models.ProfileSourceAI, AIRiskScore: 20, AIRiskTier: models.RiskTierLow}, nil
}

func (r *recordingDeps) Company(ctx context.Context, name string) screening.Hits {
	r.record("company")
	return screening.Hits{Records: []models.ListingRecord{}}
}

func (r *recordingDeps) Person(ctx context.Context, name string) screening.Hits {
	r.record("person")
	return screening.Hits{Total: 4, Records: []models.ListingRecord{{ID: "pep-1"}}}
}

func TestPipeline_Analyze_SequentialOrder(t *testing.T) {
	deps := &recordingDeps{}
	pl := New(deps, deps, deps, Options{ParallelLookups: false}, logger.NewNoOpLogger())

	a := pl.Analyze(context.Background(), "Acme", "")
	assert.Equal(t, []string{"enrich", "company", "person"}, deps.order)
	assert.Equal(t, models.RiskVerdict{FinalScore: 20, FinalTier: models.RiskTierLow}, a.Verdict)
	assert.Equal(t, 4, a.Sanctions.PersonHitCount)
}

func TestPipeline_Analyze_ParallelJoinsAllSteps(t *testing.T) {
	deps := &recordingDeps{}
	pl := New(deps, deps, deps, Options{ParallelLookups: true}, logger.NewNoOpLogger())

	a := pl.Analyze(context.Background(), "Acme", "")
	assert.ElementsMatch(t, []string{"enrich", "company", "person"}, deps.order)
	require.NotNil(t, a.Profile)
	assert.Equal(t, models.RiskVerdict{FinalScore: 20, FinalTier: models.RiskTierLow}, a.Verdict)
}

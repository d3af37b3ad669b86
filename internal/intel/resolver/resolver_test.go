package resolver

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "intelcorp/internal/common/errors"
	"intelcorp/internal/common/logger"
	"intelcorp/internal/models"
)

// ==========================
// Test Doubles
// ==========================

type stubTier struct {
	candidates []models.CompanyCandidate
	err        error
	calls      int
}

func (s *stubTier) Search(ctx context.Context, query, jurisdiction string) ([]models.CompanyCandidate, error) {
	s.calls++
	return s.candidates, s.err
}

func (s *stubTier) Suggest(ctx context.Context, query, jurisdiction string) ([]models.CompanyCandidate, error) {
	s.calls++
	return s.candidates, s.err
}

func candidates(names ...string) []models.CompanyCandidate {
	out := make([]models.CompanyCandidate, len(names))
	for i, n := range names {
		out[i] = models.CompanyCandidate{Name: n}
	}
	return out
}

// ==========================
// Core Functionality Tests
// ==========================

func TestResolver_RegistryHitNeverConsultsAI(t *testing.T) {
	reg := &stubTier{candidates: candidates("GLENCORE INTERNATIONAL AG")}
	ai := &stubTier{candidates: candidates("should not appear")}

	res := New(reg, ai, logger.NewTestLogger(t)).Resolve(context.Background(), models.Query{Text: "Glencore"})

	assert.Equal(t, models.ProvenanceRegistry, res.Provenance)
	assert.Len(t, res.Candidates, 1)
	assert.Equal(t, 1, reg.calls)
	assert.Equal(t, 0, ai.calls)
}

func TestResolver_FallsBackToAI(t *testing.T) {
	tests := []struct {
		name   string
		regErr error
		regOut []models.CompanyCandidate
	}{
		{"registry transport failure", apperrors.NewTransportError("registry", stderrors.New("timeout")), nil},
		{"registry decode failure", apperrors.NewDecodeError("registry", stderrors.New("bad json")), nil},
		{"registry zero results", apperrors.NewEmptyResultError("registry"), nil},
		{"registry empty without error", nil, []models.CompanyCandidate{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &stubTier{candidates: tt.regOut, err: tt.regErr}
			ai := &stubTier{candidates: candidates("Obscure Shell Co Ltd", "Obscure Holdings")}

			res := New(reg, ai, logger.NewTestLogger(t)).Resolve(context.Background(), models.Query{Text: "Obscure Shell Co"})

			assert.Equal(t, models.ProvenanceAISuggested, res.Provenance)
			assert.Len(t, res.Candidates, 2)
			assert.Equal(t, 1, ai.calls)
		})
	}
}

func TestResolver_BothTiersEmpty(t *testing.T) {
	reg := &stubTier{err: apperrors.NewEmptyResultError("registry")}
	ai := &stubTier{err: apperrors.NewDecodeError("suggester", stderrors.New("not json"))}

	res := New(reg, ai, logger.NewTestLogger(t)).Resolve(context.Background(), models.Query{Text: "zzqq"})

	assert.Equal(t, models.ProvenanceNone, res.Provenance)
	assert.NotNil(t, res.Candidates)
	assert.Empty(t, res.Candidates)
}

func TestResolver_PassesQueryThrough(t *testing.T) {
	var gotQuery, gotJur string
	reg := registryFunc(func(ctx context.Context, q, j string) ([]models.CompanyCandidate, error) {
		gotQuery, gotJur = q, j
		return candidates("x"), nil
	})

	New(reg, &stubTier{}, logger.NewNoOpLogger()).Resolve(context.Background(), models.Query{Text: "Rosneft", Jurisdiction: "ru"})
	assert.Equal(t, "Rosneft", gotQuery)
	assert.Equal(t, "ru", gotJur)
}

type registryFunc func(ctx context.Context, q, j string) ([]models.CompanyCandidate, error)

func (f registryFunc) Search(ctx context.Context, q, j string) ([]models.CompanyCandidate, error) {
	return f(ctx, q, j)
}

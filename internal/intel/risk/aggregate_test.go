package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"intelcorp/internal/models"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		tier     models.RiskTier
		hits     int
		expected models.RiskVerdict
	}{
		{"rosneft listed", 40, models.RiskTierModerate, 3, models.RiskVerdict{FinalScore: 75, FinalTier: models.RiskTierHigh}},
		{"no hits keeps ai view", 40, models.RiskTierModerate, 0, models.RiskVerdict{FinalScore: 40, FinalTier: models.RiskTierModerate}},
		{"high score kept above floor", 92, models.RiskTierLow, 1, models.RiskVerdict{FinalScore: 92, FinalTier: models.RiskTierHigh}},
		{"low tier without hits", 10, models.RiskTierLow, 0, models.RiskVerdict{FinalScore: 10, FinalTier: models.RiskTierLow}},
		{"unknown tier defaults", 50, models.RiskTier("CRITICAL"), 0, models.RiskVerdict{FinalScore: 50, FinalTier: models.RiskTierModerate}},
		{"empty tier defaults", 50, "", 0, models.RiskVerdict{FinalScore: 50, FinalTier: models.RiskTierModerate}},
		{"score clamped", 250, models.RiskTierHigh, 0, models.RiskVerdict{FinalScore: 100, FinalTier: models.RiskTierHigh}},
		{"negative hit count ignored", 20, models.RiskTierLow, -1, models.RiskVerdict{FinalScore: 20, FinalTier: models.RiskTierLow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Aggregate(tt.score, tt.tier, tt.hits))
		})
	}
}

func TestAggregate_MonotonicInCompanyHits(t *testing.T) {
	tiers := []models.RiskTier{models.RiskTierLow, models.RiskTierModerate, models.RiskTierHigh, ""}
	for score := 0; score <= 100; score += 5 {
		for _, tier := range tiers {
			base := Aggregate(score, tier, 0)
			for hits := 1; hits <= 20; hits++ {
				v := Aggregate(score, tier, hits)
				assert.GreaterOrEqual(t, v.FinalScore, base.FinalScore, "score=%d tier=%s hits=%d", score, tier, hits)
				assert.Equal(t, models.RiskTierHigh, v.FinalTier)
				assert.GreaterOrEqual(t, v.FinalScore, SanctionsFloor)
			}
		}
	}
}

func TestFromProfile(t *testing.T) {
	listed := models.SanctionsResult{CompanyHitCount: 2, PersonHitCount: 9}
	clean := models.SanctionsResult{PersonHitCount: 4}

	assert.Equal(t, models.RiskVerdict{FinalScore: 75, FinalTier: models.RiskTierHigh}, FromProfile(nil, listed))
	assert.Equal(t, models.RiskVerdict{FinalScore: 0, FinalTier: models.RiskTierModerate}, FromProfile(nil, clean))

	p := &models.EnrichedProfile{
		AIRiskScore: 30,
		AIRiskTier:  models.RiskTierLow,
		RedFlags:    []models.RedFlag{{Severity: models.SeverityRed, Title: "Offshore"}},
	}
	assert.Equal(t, models.RiskVerdict{FinalScore: 30, FinalTier: models.RiskTierLow}, FromProfile(p, clean))
}

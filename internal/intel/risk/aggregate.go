// Package risk folds the AI assessment and the sanctions screening into one
// verdict.
package risk

import (
	"intelcorp/internal/intel/oracle"
	"intelcorp/internal/models"
)

// SanctionsFloor is the minimum final score once the company itself is listed.
const SanctionsFloor = 75

// Aggregate is pure. Any company-schema hit forces HIGH and lifts the score
// to at least SanctionsFloor; otherwise the AI's own assessment stands.
// Person hits and red flags do not feed it.
func Aggregate(aiScore int, aiTier models.RiskTier, companyHits int) models.RiskVerdict {
	score := oracle.ClampScore(aiScore)
	tier := normalizeTier(aiTier)

	if companyHits > 0 {
		if score < SanctionsFloor {
			score = SanctionsFloor
		}
		tier = models.RiskTierHigh
	}
	return models.RiskVerdict{FinalScore: score, FinalTier: tier}
}

// FromProfile aggregates a possibly nil profile. A missing profile counts as
// score 0 and tier MODERATE.
func FromProfile(p *models.EnrichedProfile, sanctions models.SanctionsResult) models.RiskVerdict {
	if p == nil {
		return Aggregate(0, models.RiskTierModerate, sanctions.CompanyHitCount)
	}
	return Aggregate(p.AIRiskScore, p.AIRiskTier, sanctions.CompanyHitCount)
}

func normalizeTier(t models.RiskTier) models.RiskTier {
	if parsed, ok := models.ParseRiskTier(string(t)); ok {
		return parsed
	}
	return models.RiskTierModerate
}

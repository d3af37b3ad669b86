// internal/models/query_types.go
package models

import "strings"

// Query is a normalized search request. Text is trimmed and at least two runes long.
type Query struct {
	Text         string `json:"text"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

// Provenance tags which tier produced a candidate list.
type Provenance string

const (
	ProvenanceRegistry    Provenance = "REGISTRY"
	ProvenanceAISuggested Provenance = "AI_SUGGESTED"
	ProvenanceNone        Provenance = "NONE"
)

// RiskTier is the coarse risk classification attached to a profile or verdict.
type RiskTier string

const (
	RiskTierLow      RiskTier = "LOW"
	RiskTierModerate RiskTier = "MODERATE"
	RiskTierHigh     RiskTier = "HIGH"
)

// ParseRiskTier accepts both the English tiers and the French labels the
// oracle tends to answer with. Anything else yields ok=false.
func ParseRiskTier(raw string) (RiskTier, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "LOW", "FAIBLE":
		return RiskTierLow, true
	case "MODERATE", "MEDIUM", "MODERE", "MODÉRÉ":
		return RiskTierModerate, true
	case "HIGH", "ELEVE", "ÉLEVÉ", "ELEVÉ":
		return RiskTierHigh, true
	}
	return "", false
}

// Severity is the colour code of a red flag.
type Severity string

const (
	SeverityRed    Severity = "red"
	SeverityOrange Severity = "orange"
	SeverityGreen  Severity = "green"
)

// ParseSeverity maps rouge/orange/vert and their English forms. Unknown values
// fall back to orange.
func ParseSeverity(raw string) Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "red", "rouge":
		return SeverityRed
	case "green", "vert":
		return SeverityGreen
	default:
		return SeverityOrange
	}
}

// StatusClass groups free-text registry statuses.
type StatusClass string

const (
	StatusActive    StatusClass = "ACTIVE"
	StatusDissolved StatusClass = "DISSOLVED"
	StatusOther     StatusClass = "OTHER"
)

// ClassifyStatus buckets a registry status string.
func ClassifyStatus(status string) StatusClass {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "dissolved"), strings.Contains(s, "struck"):
		return StatusDissolved
	case strings.Contains(s, "active"):
		return StatusActive
	default:
		return StatusOther
	}
}

// internal/models/screening.go
package models

// MaxListingHits is the number of listing records kept per lookup.
const MaxListingHits = 5

// ListingRecord is one entry returned by the screening index.
type ListingRecord struct {
	ID       string   `json:"id"`
	Caption  string   `json:"caption"`
	Schema   string   `json:"schema"`
	Topics   []string `json:"topics"`
	Datasets []string `json:"datasets"`
}

// SanctionsResult holds the company and person halves of a screening.
// Hit lists hold at most MaxListingHits entries in index order.
type SanctionsResult struct {
	CompanyHitCount int             `json:"companyHitCount"`
	CompanyHits     []ListingRecord `json:"companyHits"`
	PersonHitCount  int             `json:"personHitCount"`
	PersonHits      []ListingRecord `json:"personHits"`
}

// RiskVerdict is the final, aggregated risk assessment.
type RiskVerdict struct {
	FinalScore int      `json:"finalScore"`
	FinalTier  RiskTier `json:"finalTier"`
}

// Analysis is the full result for one analyzed subject. It is derived per
// request and never stored.
type Analysis struct {
	RequestID       string           `json:"requestId"`
	Name            string           `json:"name"`
	Country         string           `json:"country,omitempty"`
	Profile         *EnrichedProfile `json:"profile"`
	Sanctions       SanctionsResult  `json:"sanctions"`
	Verdict         RiskVerdict      `json:"verdict"`
	EnrichmentError error            `json:"-"`
}

// ProfileAvailable reports whether enrichment produced a profile.
func (a Analysis) ProfileAvailable() bool {
	return a.Profile != nil && a.EnrichmentError == nil
}

// internal/models/company.go
package models

// CompanyCandidate is one possible match for a search query. Candidates are
// built per search and never mutated afterwards.
type CompanyCandidate struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	JurisdictionCode   string `json:"jurisdictionCode,omitempty"`
	CountryCode        string `json:"countryCode,omitempty"`
	CountryLabel       string `json:"countryLabel"`
	FlagGlyph          string `json:"flagGlyph"`
	Status             string `json:"status,omitempty"`
	IncorporationDate  string `json:"incorporationDate,omitempty"`
	City               string `json:"city,omitempty"`
	LegalForm          string `json:"legalForm,omitempty"`
	SourceURL          string `json:"sourceUrl,omitempty"`
}

// Subject returns the name and country hint used to analyze this candidate.
func (c CompanyCandidate) Subject() (name, country string) {
	return c.Name, c.CountryLabel
}

// StatusClass classifies the candidate status.
func (c CompanyCandidate) StatusClass() StatusClass {
	return ClassifyStatus(c.Status)
}

// SearchResult is the outcome of the two-tier resolution. A NONE result never
// carries candidates.
type SearchResult struct {
	Candidates []CompanyCandidate `json:"candidates"`
	Provenance Provenance         `json:"provenance"`
}

// EmptySearch is the result for short queries and double misses.
func EmptySearch() SearchResult {
	return SearchResult{Candidates: []CompanyCandidate{}, Provenance: ProvenanceNone}
}

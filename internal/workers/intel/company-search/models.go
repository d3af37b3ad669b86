// internal/workers/intel/company-search/models.go
package companysearch

import "intelcorp/internal/models"

type Input struct {
	Query        string `json:"query"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

type Output struct {
	Candidates []models.CompanyCandidate `json:"candidates"`
	Provenance models.Provenance         `json:"provenance"`
	Count      int                       `json:"count"`
}

// internal/workers/intel/company-analyze/models.go
package companyanalyze

import "intelcorp/internal/models"

type Input struct {
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

type Output struct {
	RequestID        string                  `json:"requestId"`
	Profile          *models.EnrichedProfile `json:"profile"`
	ProfileAvailable bool                    `json:"profileAvailable"`
	Sanctions        models.SanctionsResult  `json:"sanctions"`
	Verdict          models.RiskVerdict      `json:"verdict"`
}

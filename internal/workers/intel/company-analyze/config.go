// internal/workers/intel/company-analyze/config.go
package companyanalyze

import "time"

type Config struct {
	Timeout time.Duration
}

// LoadConfig covers one oracle call plus both screening lookups.
func LoadConfig() *Config {
	return &Config{
		Timeout: 90 * time.Second,
	}
}

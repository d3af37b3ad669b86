// pkg/registry/schema.go
package registry

import (
	"time"

	"intelcorp/internal/common/validation"
)

// ActivityRegistry is the catalogue of task types this deployment serves.
type ActivityRegistry struct {
	Version    string     `json:"version"`
	Activities []Activity `json:"activities"`
}

// Activity describes one task type: its job variable contract and the
// deadline its handler runs under. Unknown catalogue keys are ignored.
type Activity struct {
	ID           string                 `json:"id"`
	DisplayName  string                 `json:"displayName"`
	Description  string                 `json:"description"`
	Category     string                 `json:"category"`
	TaskType     string                 `json:"taskType"`
	InputSchema  map[string]interface{} `json:"inputSchema"`
	OutputSchema map[string]interface{} `json:"outputSchema"`
	ErrorCodes   []string               `json:"errorCodes"`
	Timeout      string                 `json:"timeout"`

	input *validation.Schema
}

// HandlerTimeout parses Timeout ("20s", "1m30s"). ok is false for a nil
// activity, an empty value or a non-positive duration.
func (a *Activity) HandlerTimeout() (d time.Duration, ok bool) {
	if a == nil || a.Timeout == "" {
		return 0, false
	}
	d, err := time.ParseDuration(a.Timeout)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

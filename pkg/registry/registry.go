// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	apperrors "intelcorp/internal/common/errors"
	"intelcorp/internal/common/validation"
)

// LoadRegistry reads the activity catalogue. Task types must be unique and
// every input schema must compile.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a catalogue already in memory.
func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode activity registry: %w", err)
	}

	seen := make(map[string]bool, len(reg.Activities))
	for i := range reg.Activities {
		a := &reg.Activities[i]
		if a.TaskType == "" {
			return nil, fmt.Errorf("activity %q has no taskType", a.ID)
		}
		if seen[a.TaskType] {
			return nil, fmt.Errorf("duplicate taskType %q", a.TaskType)
		}
		seen[a.TaskType] = true

		if len(a.InputSchema) > 0 {
			compiled, err := validation.Compile(a.InputSchema)
			if err != nil {
				return nil, fmt.Errorf("activity %q input schema: %w", a.TaskType, err)
			}
			a.input = compiled
		}
	}
	return &reg, nil
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	if r == nil {
		return nil, false
	}
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// ValidateInput checks job variables against the activity's input schema.
// A nil activity or one without a schema accepts everything.
func (a *Activity) ValidateInput(vars map[string]interface{}) error {
	if a == nil || a.input == nil {
		return nil
	}
	result := a.input.Validate(vars)
	if result.Valid {
		return nil
	}
	return apperrors.NewInvalidInputError(result.Summary())
}

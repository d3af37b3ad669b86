// Package suggest asks the AI oracle for plausible companies when the
// registry has nothing. Suggestions are unverified and carry no registration
// number.
package suggest

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	apperrors "intelcorp/internal/common/errors"
	"intelcorp/internal/common/logger"
	"intelcorp/internal/common/validation"
	"intelcorp/internal/intel/country"
	"intelcorp/internal/intel/oracle"
	"intelcorp/internal/models"
)

const (
	Source = "suggester"

	// MaxSuggestions caps the candidates kept from one answer.
	MaxSuggestions = 10

	Temperature = 0.1
	MaxTokens   = 1000

	defaultStatus = "Active"
)

// suggestionSchema accepts an array; items that are not objects, or whose
// known keys are not scalars, are dropped individually.
var suggestionSchema = validation.MustCompile(map[string]interface{}{
	"type": "array",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"nom":           scalar,
			"pays":          scalar,
			"pays_code":     scalar,
			"ville":         scalar,
			"secteur":       scalar,
			"statut":        scalar,
			"type":          scalar,
			"date_creation": scalar,
		},
	},
})

var scalar = map[string]interface{}{"type": []interface{}{"string", "number", "boolean", "null"}}

// Suggester turns a query into AI-suggested candidates.
type Suggester struct {
	oracle    oracle.Oracle
	countries *country.Table
	logger    logger.Logger
}

func New(o oracle.Oracle, countries *country.Table, log logger.Logger) *Suggester {
	return &Suggester{
		oracle:    o,
		countries: countries,
		logger:    log.With(map[string]interface{}{"source": Source}),
	}
}

// Suggest makes a single oracle call. Transport and decode failures are
// returned classified; an answer with no usable item is EMPTY_RESULT.
func (s *Suggester) Suggest(ctx context.Context, query, jurisdiction string) ([]models.CompanyCandidate, error) {
	text, err := s.oracle.Complete(ctx, oracle.Request{
		Prompt:      BuildPrompt(query, jurisdiction),
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	doc, err := oracle.DecodeJSON(Source, text)
	if err != nil {
		return nil, err
	}

	items, err := s.validItems(doc)
	if err != nil {
		return nil, err
	}

	out := make([]models.CompanyCandidate, 0, len(items))
	for _, item := range items {
		cand, ok := s.toCandidate(item)
		if !ok {
			continue
		}
		out = append(out, cand)
		if len(out) == MaxSuggestions {
			break
		}
	}

	if len(out) == 0 {
		return nil, apperrors.NewEmptyResultError(Source)
	}
	return out, nil
}

// BuildPrompt renders the suggestion prompt.
func BuildPrompt(query, jurisdiction string) string {
	scope := ""
	if jurisdiction != "" {
		scope = " in " + jurisdiction
	}
	return fmt.Sprintf(
		`List real companies matching %q%s. Return ONLY JSON array max %d: `+
			`[{"nom":"","pays":"","pays_code":"2-letter ISO","ville":"","secteur":"","statut":"Active","type":"","date_creation":""}]`,
		query, scope, MaxSuggestions,
	)
}

func (s *Suggester) validItems(doc interface{}) ([]map[string]interface{}, error) {
	result := suggestionSchema.Validate(doc)
	if result.RootErrors() {
		return nil, apperrors.NewSchemaViolationError(Source, result.Summary())
	}

	bad := result.InvalidTopLevel()
	if len(bad) > 0 {
		s.logger.Debug("dropping invalid suggestions", map[string]interface{}{
			"dropped": len(bad),
			"details": result.Summary(),
		})
	}

	arr, _ := doc.([]interface{})
	items := make([]map[string]interface{}, 0, len(arr))
	for i, raw := range arr {
		if bad[strconv.Itoa(i)] {
			continue
		}
		if m, ok := raw.(map[string]interface{}); ok {
			items = append(items, m)
		}
	}
	return items, nil
}

func (s *Suggester) toCandidate(item map[string]interface{}) (models.CompanyCandidate, bool) {
	name := oracle.AsText(item["nom"])
	if name == "" {
		return models.CompanyCandidate{}, false
	}

	code := country.NormalizeCode(oracle.AsText(item["pays_code"]))
	label := oracle.AsText(item["pays"])
	if label == "" && s.countries.HasLabel(code) {
		label = s.countries.Label(code, code)
	}

	status := oracle.AsText(item["statut"])
	if status == "" {
		status = defaultStatus
	}

	legalForm := oracle.AsText(item["type"])
	if legalForm == "" {
		legalForm = oracle.AsText(item["secteur"])
	}

	return models.CompanyCandidate{
		Name:              strings.TrimSpace(name),
		JurisdictionCode:  code,
		CountryCode:       code,
		CountryLabel:      label,
		FlagGlyph:         s.countries.Flag(code),
		Status:            status,
		IncorporationDate: oracle.AsText(item["date_creation"]),
		City:              oracle.AsText(item["ville"]),
		LegalForm:         legalForm,
	}, true
}

// Package enrich builds an EnrichedProfile from a single oracle call.
package enrich

import (
	"context"
	"fmt"
	"strings"

	apperrors "intelcorp/internal/common/errors"
	"intelcorp/internal/common/logger"
	"intelcorp/internal/intel/oracle"
	"intelcorp/internal/models"
)

const (
	Source = "enrichment"

	Temperature = 0.2
	MaxTokens   = 4000
)

// Engine asks the oracle for a dossier and coerces the answer into a profile.
// It never retries.
type Engine struct {
	oracle oracle.Oracle
	logger logger.Logger
}

func NewEngine(o oracle.Oracle, log logger.Logger) *Engine {
	return &Engine{
		oracle: o,
		logger: log.With(map[string]interface{}{"source": Source}),
	}
}

// Enrich returns nil and a classified error on transport or decode failure.
func (e *Engine) Enrich(ctx context.Context, name, country string) (*models.EnrichedProfile, error) {
	text, err := e.oracle.Complete(ctx, oracle.Request{
		Prompt:      BuildPrompt(name, country),
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		e.logger.Warn("enrichment call failed", map[string]interface{}{
			"company": name,
			"error":   err,
		})
		return nil, err
	}

	doc, err := oracle.DecodeJSON(Source, text)
	if err != nil {
		e.logger.Warn("enrichment answer is not JSON", map[string]interface{}{
			"company": name,
			"error":   err,
		})
		return nil, err
	}

	fields, err := e.validFields(doc)
	if err != nil {
		return nil, err
	}
	return buildProfile(fields), nil
}

// BuildPrompt renders the enrichment prompt with its fixed key set.
func BuildPrompt(name, country string) string {
	origin := ""
	if country != "" {
		origin = " from " + country
	}
	return fmt.Sprintf("Expert due diligence analyst, commodity trading. Research %q%s.\nReturn ONLY valid JSON:\n%s",
		name, origin, profileTemplate)
}

const profileTemplate = `{"nom_complet":"","description":"","pays":"","ville_siege":"","adresse":"","site_web":"","email_contact":"","telephone":"","date_creation":"","forme_juridique":"","numero_enregistrement":"","secteur":"","activite_principale":"","produits_services":[],"marches_operes":[],` +
	`"dirigeants":[{"nom":"","poste":"","nationalite":"","depuis":"","parcours_anterieur":""}],"actionnaires":[{"nom":"","pourcentage":"","type":""}],"filiales":[],"maison_mere":"","partenaires_connus":[],` +
	`"financier":{"chiffre_affaires":"","benefice_net":"","capitalisation_boursiere":"","effectifs":"","notation_credit":"","bourse_cotation":"","ticker":""},` +
	`"reputation":{"positif":[],"negatif":[],"controverses":[],"certifications":[]},"presence_digitale":{"linkedin":"","twitter":"","wikipedia":""},` +
	`"sanctions":{"ofac":"","ue":"","onu":"","commentaire":""},"red_flags":[{"niveau":"rouge|orange|vert","titre":"","detail":""}],` +
	`"score_risque":0,"niveau_risque":"FAIBLE|MODERE|ELEVE","verdict":"","recommandations":[]}`

// validFields rejects a non-object root and drops top-level keys whose value
// has the wrong shape, so they fall back to their zero value.
func (e *Engine) validFields(doc interface{}) (map[string]interface{}, error) {
	result := profileSchema.Validate(doc)
	if result.RootErrors() {
		return nil, apperrors.NewDecodeError(Source, fmt.Errorf("answer root is not an object: %s", result.Summary()))
	}

	fields := oracle.AsObject(doc)
	if bad := result.InvalidTopLevel(); len(bad) > 0 {
		keys := make([]string, 0, len(bad))
		for key := range bad {
			delete(fields, key)
			keys = append(keys, key)
		}
		e.logger.Debug("dropping malformed profile keys", map[string]interface{}{
			"keys": strings.Join(keys, ","),
		})
	}
	return fields, nil
}

func buildProfile(f map[string]interface{}) *models.EnrichedProfile {
	fin := oracle.AsObject(f["financier"])
	rep := oracle.AsObject(f["reputation"])
	web := oracle.AsObject(f["presence_digitale"])
	sanc := oracle.AsObject(f["sanctions"])

	p := &models.EnrichedProfile{
		Source:             models.ProfileSourceAI,
		LegalName:          oracle.AsText(f["nom_complet"]),
		Description:        oracle.AsText(f["description"]),
		Country:            oracle.AsText(f["pays"]),
		HeadquartersCity:   oracle.AsText(f["ville_siege"]),
		Address:            oracle.AsText(f["adresse"]),
		Website:            oracle.AsText(f["site_web"]),
		ContactEmail:       oracle.AsText(f["email_contact"]),
		Phone:              oracle.AsText(f["telephone"]),
		IncorporationDate:  oracle.AsText(f["date_creation"]),
		LegalForm:          oracle.AsText(f["forme_juridique"]),
		RegistrationNumber: oracle.AsText(f["numero_enregistrement"]),
		Sector:             oracle.AsText(f["secteur"]),
		MainActivity:       oracle.AsText(f["activite_principale"]),
		ProductsServices:   oracle.AsTextList(f["produits_services"]),
		Markets:            oracle.AsTextList(f["marches_operes"]),
		ParentCompany:      oracle.AsText(f["maison_mere"]),
		Subsidiaries:       oracle.AsTextList(f["filiales"]),
		KnownPartners:      oracle.AsTextList(f["partenaires_connus"]),
		Financials: models.Financials{
			Revenue:       oracle.AsText(fin["chiffre_affaires"]),
			NetIncome:     oracle.AsText(fin["benefice_net"]),
			MarketCap:     oracle.AsText(fin["capitalisation_boursiere"]),
			Headcount:     oracle.AsText(fin["effectifs"]),
			CreditRating:  oracle.AsText(fin["notation_credit"]),
			StockExchange: oracle.AsText(fin["bourse_cotation"]),
			Ticker:        oracle.AsText(fin["ticker"]),
		},
		Leadership: leaders(f["dirigeants"]),
		Ownership:  shareholders(f["actionnaires"]),
		Reputation: models.Reputation{
			Positive:       oracle.AsTextList(rep["positif"]),
			Negative:       oracle.AsTextList(rep["negatif"]),
			Controversies:  oracle.AsTextList(rep["controverses"]),
			Certifications: oracle.AsTextList(rep["certifications"]),
		},
		DigitalPresence: models.DigitalPresence{
			LinkedIn:  oracle.AsText(web["linkedin"]),
			Twitter:   oracle.AsText(web["twitter"]),
			Wikipedia: oracle.AsText(web["wikipedia"]),
		},
		Sanctions: models.SanctionsExposure{
			OFAC:    oracle.AsText(sanc["ofac"]),
			EU:      oracle.AsText(sanc["ue"]),
			UN:      oracle.AsText(sanc["onu"]),
			Comment: oracle.AsText(sanc["commentaire"]),
		},
		RedFlags:        redFlags(f["red_flags"]),
		AIRiskTier:      models.RiskTierModerate,
		Verdict:         oracle.AsText(f["verdict"]),
		Recommendations: oracle.AsTextList(f["recommandations"]),
	}

	if score, ok := oracle.AsScore(f["score_risque"]); ok {
		p.AIRiskScore = score
	}
	if tier, ok := models.ParseRiskTier(oracle.AsText(f["niveau_risque"])); ok {
		p.AIRiskTier = tier
	}
	return p
}

func objects(v interface{}) []map[string]interface{} {
	arr, _ := v.([]interface{})
	out := make([]map[string]interface{}, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

func leaders(v interface{}) []models.Leader {
	out := []models.Leader{}
	for _, m := range objects(v) {
		name := oracle.AsText(m["nom"])
		if name == "" {
			continue
		}
		out = append(out, models.Leader{
			Name:        name,
			Title:       oracle.AsText(m["poste"]),
			Nationality: oracle.AsText(m["nationalite"]),
			TenureStart: oracle.AsText(m["depuis"]),
			PriorCareer: oracle.AsText(m["parcours_anterieur"]),
		})
	}
	return out
}

func shareholders(v interface{}) []models.Shareholder {
	out := []models.Shareholder{}
	for _, m := range objects(v) {
		name := oracle.AsText(m["nom"])
		if name == "" {
			continue
		}
		out = append(out, models.Shareholder{
			Name:       name,
			Percentage: oracle.AsText(m["pourcentage"]),
			HolderType: oracle.AsText(m["type"]),
		})
	}
	return out
}

func redFlags(v interface{}) []models.RedFlag {
	out := []models.RedFlag{}
	for _, m := range objects(v) {
		title := oracle.AsText(m["titre"])
		detail := oracle.AsText(m["detail"])
		if title == "" && detail == "" {
			continue
		}
		out = append(out, models.RedFlag{
			Severity: models.ParseSeverity(oracle.AsText(m["niveau"])),
			Title:    title,
			Detail:   detail,
		})
	}
	return out
}

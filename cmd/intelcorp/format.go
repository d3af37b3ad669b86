package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	apperrors "intelcorp/internal/common/errors"
	"intelcorp/internal/models"
)

const (
	summaryLeaders      = 6
	summaryShareholders = 8
	summarySubsidiaries = 4
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// analysisView adds the enrichment outcome, which Analysis does not marshal.
func analysisView(a models.Analysis) map[string]interface{} {
	view := map[string]interface{}{
		"requestId":        a.RequestID,
		"name":             a.Name,
		"country":          a.Country,
		"profile":          a.Profile,
		"profileAvailable": a.ProfileAvailable(),
		"sanctions":        a.Sanctions,
		"verdict":          a.Verdict,
	}
	if a.EnrichmentError != nil {
		view["enrichmentError"] = map[string]string{
			"code":    string(apperrors.CodeOf(a.EnrichmentError)),
			"message": a.EnrichmentError.Error(),
		}
	}
	return view
}

func writeSearch(w io.Writer, res models.SearchResult) error {
	fmt.Fprintf(w, "source: %s (%d)\n", res.Provenance, len(res.Candidates))
	if len(res.Candidates) == 0 {
		_, err := fmt.Fprintln(w, "no candidates")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tCOUNTRY\tSTATUS\tREG. NO\tCITY")
	for i, c := range res.Candidates {
		fmt.Fprintf(tw, "%d\t%s\t%s %s\t%s\t%s\t%s\n",
			i+1, c.Name, c.FlagGlyph, c.CountryLabel, c.StatusClass(), dash(c.RegistrationNumber), dash(c.City))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	name, country := res.Candidates[0].Subject()
	_, err := fmt.Fprintf(w, "\nnext: intelcorp analyze %q --country %q\n", name, country)
	return err
}

func writeAnalysis(w io.Writer, a models.Analysis) error {
	fmt.Fprintf(w, "%s", a.Name)
	if a.Country != "" {
		fmt.Fprintf(w, " (%s)", a.Country)
	}
	fmt.Fprintf(w, "  request %s\n", a.RequestID)
	fmt.Fprintf(w, "verdict: %d/100 %s\n", a.Verdict.FinalScore, a.Verdict.FinalTier)
	fmt.Fprintf(w, "sanctions: %d company, %d person\n", a.Sanctions.CompanyHitCount, a.Sanctions.PersonHitCount)
	for _, hit := range a.Sanctions.CompanyHits {
		fmt.Fprintf(w, "  - %s [%s]\n", hit.Caption, strings.Join(hit.Topics, ", "))
	}

	if !a.ProfileAvailable() {
		msg := "enrichment unavailable"
		if a.EnrichmentError != nil {
			msg += ": " + a.EnrichmentError.Error()
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	p := a.Profile
	fmt.Fprintf(w, "\nprofile (AI, unverified): %s\n", dash(p.LegalName))
	if p.Description != "" {
		fmt.Fprintf(w, "  %s\n", p.Description)
	}
	fmt.Fprintf(w, "  sector: %s  hq: %s\n", dash(p.Sector), dash(p.HeadquartersCity))
	fmt.Fprintf(w, "  ai score: %d %s\n", p.AIRiskScore, p.AIRiskTier)

	if leaders := p.Leaders(summaryLeaders); len(leaders) > 0 {
		fmt.Fprintln(w, "leadership:")
		for _, l := range leaders {
			fmt.Fprintf(w, "  - %s, %s\n", l.Name, dash(l.Title))
		}
	}
	if holders := p.Shareholders(summaryShareholders); len(holders) > 0 {
		fmt.Fprintln(w, "ownership:")
		for _, s := range holders {
			fmt.Fprintf(w, "  - %s %s\n", s.Name, s.Percentage)
		}
	}
	if subs := p.SubsidiaryNames(summarySubsidiaries); len(subs) > 0 {
		fmt.Fprintf(w, "subsidiaries: %s\n", strings.Join(subs, ", "))
	}
	for _, f := range p.RedFlags {
		fmt.Fprintf(w, "[%s] %s %s\n", f.Severity, f.Title, f.Detail)
	}
	return nil
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Package registry searches the OpenCorporates company registry.
package registry

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"intelcorp/internal/common/config"
	apperrors "intelcorp/internal/common/errors"
	httpclient "intelcorp/internal/common/http"
	"intelcorp/internal/common/metrics"
	"intelcorp/internal/intel/country"
	"intelcorp/internal/models"
)

// Source is the metrics and error label for registry calls.
const Source = "registry"

// MaxResults caps the candidates taken from one registry page.
const MaxResults = 12

// Client searches the registry. It is safe for concurrent use.
type Client struct {
	http      *httpclient.Client
	baseURL   string
	apiToken  string
	perPage   int
	countries *country.Table
}

// NewClient builds a client from config. Every request is bounded by
// cfg.Timeout regardless of the caller's context.
func NewClient(cfg config.RegistryConfig, countries *country.Table) *Client {
	perPage := cfg.PerPage
	if perPage <= 0 || perPage > MaxResults {
		perPage = MaxResults
	}
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	return &Client{
		http:      httpclient.NewClient(timeout, httpclient.WithUserAgent(cfg.UserAgent)),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiToken:  cfg.APIToken,
		perPage:   perPage,
		countries: countries,
	}
}

type searchResponse struct {
	Results struct {
		Companies []struct {
			Company companyRecord `json:"company"`
		} `json:"companies"`
	} `json:"results"`
}

type companyRecord struct {
	Name              string          `json:"name"`
	CompanyNumber     string          `json:"company_number"`
	JurisdictionCode  string          `json:"jurisdiction_code"`
	RegisteredAddress json.RawMessage `json:"registered_address"`
	CurrentStatus     string          `json:"current_status"`
	IncorporationDate string          `json:"incorporation_date"`
	CompanyType       string          `json:"company_type"`
	OpenCorporatesURL string          `json:"opencorporates_url"`
}

// Search queries the registry. Zero results return EMPTY_RESULT; network
// failures and non-200 statuses TRANSPORT_ERROR; bad bodies DECODE_ERROR.
func (c *Client) Search(ctx context.Context, query, jurisdiction string) ([]models.CompanyCandidate, error) {
	started := time.Now()
	defer func() {
		metrics.ProviderCallDuration.WithLabelValues(Source).Observe(time.Since(started).Seconds())
	}()

	var resp searchResponse
	if err := c.http.GetJSON(ctx, Source, c.searchURL(query, jurisdiction), nil, &resp); err != nil {
		return nil, err
	}

	companies := resp.Results.Companies
	if len(companies) == 0 {
		return nil, apperrors.NewEmptyResultError(Source)
	}
	if len(companies) > MaxResults {
		companies = companies[:MaxResults]
	}

	out := make([]models.CompanyCandidate, 0, len(companies))
	for _, item := range companies {
		out = append(out, c.toCandidate(item.Company))
	}
	return out, nil
}

func (c *Client) searchURL(query, jurisdiction string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("per_page", strconv.Itoa(c.perPage))
	if jurisdiction != "" {
		params.Set("jurisdiction_code", jurisdiction)
	}
	if c.apiToken != "" {
		params.Set("api_token", c.apiToken)
	}
	return c.baseURL + "/companies/search?" + params.Encode()
}

func (c *Client) toCandidate(rec companyRecord) models.CompanyCandidate {
	jcode := strings.ToLower(strings.TrimSpace(rec.JurisdictionCode))
	cc := country.CountryCode(jcode)

	return models.CompanyCandidate{
		Name:               rec.Name,
		RegistrationNumber: rec.CompanyNumber,
		JurisdictionCode:   jcode,
		CountryCode:        cc,
		CountryLabel:       c.countries.Label(cc, jcode),
		FlagGlyph:          c.countries.Flag(cc),
		Status:             rec.CurrentStatus,
		IncorporationDate:  rec.IncorporationDate,
		City:               addressCity(rec.RegisteredAddress),
		LegalForm:          rec.CompanyType,
		SourceURL:          rec.OpenCorporatesURL,
	}
}

// addressCity reads city, then locality, from an address object. Strings,
// nulls and anything else yield "".
func addressCity(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var addr map[string]interface{}
	if err := json.Unmarshal(raw, &addr); err != nil || addr == nil {
		return ""
	}
	for _, key := range []string{"city", "locality"} {
		if s, ok := addr[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

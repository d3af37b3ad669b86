package screening

import (
	"context"
	"net/url"
	"strings"

	"intelcorp/internal/common/config"
	httpclient "intelcorp/internal/common/http"
	"intelcorp/internal/models"
)

// HTTPIndex queries an OpenSanctions-compatible search API.
type HTTPIndex struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
	dataset string
}

func NewHTTPIndex(cfg config.ScreeningConfig) *HTTPIndex {
	dataset := cfg.Dataset
	if dataset == "" {
		dataset = "default"
	}
	return &HTTPIndex{
		http:    httpclient.NewClient(timeoutOf(cfg)),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		dataset: dataset,
	}
}

type searchResponse struct {
	Total struct {
		Value int `json:"value"`
	} `json:"total"`
	Results []entity `json:"results"`
}

type entity struct {
	ID         string   `json:"id"`
	Caption    string   `json:"caption"`
	Schema     string   `json:"schema"`
	Datasets   []string `json:"datasets"`
	Properties struct {
		Topics []string `json:"topics"`
	} `json:"properties"`
}

func (e entity) record() models.ListingRecord {
	return models.ListingRecord{
		ID:       e.ID,
		Caption:  e.Caption,
		Schema:   e.Schema,
		Topics:   nonNil(e.Properties.Topics),
		Datasets: nonNil(e.Datasets),
	}
}

func (i *HTTPIndex) Search(ctx context.Context, name, schema string) (Hits, error) {
	params := url.Values{}
	params.Set("q", name)
	params.Set("schema", schema)
	endpoint := i.baseURL + "/search/" + url.PathEscape(i.dataset) + "?" + params.Encode()

	var headers map[string]string
	if i.apiKey != "" {
		headers = map[string]string{"Authorization": "ApiKey " + i.apiKey}
	}

	var resp searchResponse
	if err := i.http.GetJSON(ctx, Source, endpoint, headers, &resp); err != nil {
		return Hits{}, err
	}

	hits := Hits{Total: resp.Total.Value, Records: make([]models.ListingRecord, 0, models.MaxListingHits)}
	for _, e := range resp.Results {
		if len(hits.Records) == models.MaxListingHits {
			break
		}
		hits.Records = append(hits.Records, e.record())
	}
	return hits, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

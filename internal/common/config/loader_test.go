package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	path := writeConfig(t, `
app:
  name: intelcorp-test
workers:
  company-search:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "intelcorp-test", cfg.App.Name)
	assert.Equal(t, "https://api.opencorporates.com/v0.4", cfg.Registry.BaseURL)
	assert.Equal(t, 6000, cfg.Registry.Timeout)
	assert.Equal(t, 12, cfg.Registry.PerPage)
	assert.NotEmpty(t, cfg.Registry.UserAgent)

	assert.Equal(t, OracleProviderGroq, cfg.Oracle.Provider)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.Oracle.BaseURL)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Oracle.Model)

	assert.Equal(t, ScreeningBackendHTTP, cfg.Screening.Backend)
	assert.Equal(t, "https://api.opensanctions.org", cfg.Screening.BaseURL)
	assert.Equal(t, "default", cfg.Screening.Dataset)
	assert.Equal(t, 8000, cfg.Screening.Timeout)

	assert.True(t, cfg.Pipeline.ParallelLookups)
	assert.True(t, cfg.Camunda.Plaintext)
	assert.Equal(t, ":8080", cfg.Metrics.Address)

	wc := GetWorkerConfig(cfg, "company-search")
	assert.True(t, wc.Enabled)
	assert.Equal(t, 5, wc.MaxJobsActive)
	assert.Equal(t, 30000, wc.Timeout)
}

func TestLoadFromFile_EnvExpansionAndOverrides(t *testing.T) {
	t.Setenv("TEST_OC_TOKEN", "oc-token")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("OPENSANCTIONS_API_KEY", "os-key")
	path := writeConfig(t, `
registry:
  api_token: ${TEST_OC_TOKEN}
oracle:
  provider: gemini
pipeline:
  parallel_lookups: false
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "oc-token", cfg.Registry.APIToken)
	assert.Equal(t, "gemini-key", cfg.Oracle.APIKey)
	assert.Equal(t, "gemini-1.5-flash", cfg.Oracle.Model)
	assert.Equal(t, "os-key", cfg.Screening.APIKey)
	assert.False(t, cfg.Pipeline.ParallelLookups)
}

func TestLoadFromFile_ElasticsearchBackend(t *testing.T) {
	path := writeConfig(t, `
screening:
  backend: elasticsearch
  elasticsearch:
    url: http://localhost:9200
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:9200"}, cfg.Screening.Elasticsearch.Addresses)
	assert.Equal(t, "opensanctions", cfg.Screening.Elasticsearch.Index)
	assert.Equal(t, "http://localhost:9200", cfg.Screening.Elasticsearch.GetURL())
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown oracle", "oracle:\n  provider: openai-legacy\n"},
		{"unknown screening backend", "screening:\n  backend: sqlite\n"},
		{"elasticsearch without addresses", "screening:\n  backend: elasticsearch\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateForWorkers(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, ValidateForWorkers(cfg))
	cfg.Camunda.BrokerAddress = "localhost:26500"
	assert.NoError(t, ValidateForWorkers(cfg))
}

func TestIsWorkerEnabled(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{"company-analyze": {Enabled: false}}}
	assert.False(t, IsWorkerEnabled(cfg, "company-analyze"))
	assert.True(t, IsWorkerEnabled(cfg, "company-search"))
}

// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App                  AppConfig               `mapstructure:"app"`
	Camunda              CamundaConfig           `mapstructure:"camunda"`
	Workers              map[string]WorkerConfig `mapstructure:"workers"`
	Registry             RegistryConfig          `mapstructure:"registry"`
	Oracle               OracleConfig            `mapstructure:"oracle"`
	Screening            ScreeningConfig         `mapstructure:"screening"`
	Pipeline             PipelineConfig          `mapstructure:"pipeline"`
	Logging              LoggingConfig           `mapstructure:"logging"`
	Metrics              MetricsConfig           `mapstructure:"metrics"`
	ActivityRegistryPath string                  `mapstructure:"activity_registry_path"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	Plaintext      bool   `mapstructure:"plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Provider Configuration ---

// RegistryConfig configures the OpenCorporates search client.
type RegistryConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	APIToken  string `mapstructure:"api_token"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
	PerPage   int    `mapstructure:"per_page"`
	UserAgent string `mapstructure:"user_agent"`
}

// OracleConfig selects and configures the generative AI provider.
type OracleConfig struct {
	Provider string `mapstructure:"provider"` // groq | gemini
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds, 0 = caller context only
}

// ScreeningConfig configures the sanctions/PEP index.
type ScreeningConfig struct {
	Backend       string              `mapstructure:"backend"` // http | elasticsearch
	BaseURL       string              `mapstructure:"base_url"`
	APIKey        string              `mapstructure:"api_key"`
	Dataset       string              `mapstructure:"dataset"`
	Timeout       int                 `mapstructure:"timeout"` // milliseconds
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
	URL       string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

// PipelineConfig tunes the analyze flow.
type PipelineConfig struct {
	ParallelLookups bool `mapstructure:"parallel_lookups"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig configures the health and metrics listener.
type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	OracleProviderGroq   = "groq"
	OracleProviderGemini = "gemini"

	ScreeningBackendHTTP          = "http"
	ScreeningBackendElasticsearch = "elasticsearch"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top,
// expands ${VAR} placeholders and applies env overrides and defaults.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional overlay

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Zero values are meaningful for booleans, so they need viper defaults.
	v.SetDefault("pipeline.parallel_lookups", true)
	v.SetDefault("camunda.plaintext", true)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up from the working
// directory. A missing file is not an error.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets from their conventional variable names
// when the config file left them empty.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.Camunda.BrokerAddress, "ZEEBE_ADDRESS")
	setIfEmpty(&cfg.Registry.APIToken, "OPENCORPORATES_API_TOKEN")
	setIfEmpty(&cfg.Screening.APIKey, "OPENSANCTIONS_API_KEY")

	switch cfg.Oracle.Provider {
	case OracleProviderGemini:
		setIfEmpty(&cfg.Oracle.APIKey, "GEMINI_API_KEY")
	default:
		setIfEmpty(&cfg.Oracle.APIKey, "GROQ_API_KEY")
	}
}

func setIfEmpty(field *string, envKey string) {
	if *field != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "intelcorp"
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Registry.BaseURL == "" {
		cfg.Registry.BaseURL = "https://api.opencorporates.com/v0.4"
	}
	if cfg.Registry.Timeout == 0 {
		cfg.Registry.Timeout = 6000
	}
	if cfg.Registry.PerPage == 0 {
		cfg.Registry.PerPage = 12
	}
	if cfg.Registry.UserAgent == "" {
		cfg.Registry.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	}

	if cfg.Oracle.Provider == "" {
		cfg.Oracle.Provider = OracleProviderGroq
	}
	if cfg.Oracle.Provider == OracleProviderGroq && cfg.Oracle.BaseURL == "" {
		cfg.Oracle.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Oracle.Model == "" {
		switch cfg.Oracle.Provider {
		case OracleProviderGemini:
			cfg.Oracle.Model = "gemini-1.5-flash"
		default:
			cfg.Oracle.Model = "llama-3.3-70b-versatile"
		}
	}

	if cfg.Screening.Backend == "" {
		cfg.Screening.Backend = ScreeningBackendHTTP
	}
	if cfg.Screening.BaseURL == "" {
		cfg.Screening.BaseURL = "https://api.opensanctions.org"
	}
	if cfg.Screening.Dataset == "" {
		cfg.Screening.Dataset = "default"
	}
	if cfg.Screening.Timeout == 0 {
		cfg.Screening.Timeout = 8000
	}
	if cfg.Screening.Elasticsearch.Index == "" {
		cfg.Screening.Elasticsearch.Index = "opensanctions"
	}
	if cfg.Screening.Elasticsearch.URL == "" && len(cfg.Screening.Elasticsearch.Addresses) > 0 {
		cfg.Screening.Elasticsearch.URL = cfg.Screening.Elasticsearch.Addresses[0]
	}
	if len(cfg.Screening.Elasticsearch.Addresses) == 0 && cfg.Screening.Elasticsearch.URL != "" {
		cfg.Screening.Elasticsearch.Addresses = []string{cfg.Screening.Elasticsearch.URL}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":8080"
	}
	if cfg.ActivityRegistryPath == "" {
		cfg.ActivityRegistryPath = "configs/activity-registry.json"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates provider selections and required endpoints.
func validateConfig(cfg *Config) error {
	switch cfg.Oracle.Provider {
	case OracleProviderGroq:
		if cfg.Oracle.BaseURL == "" {
			return fmt.Errorf("oracle.base_url is required for provider %q", cfg.Oracle.Provider)
		}
	case OracleProviderGemini:
	default:
		return fmt.Errorf("oracle.provider must be %q or %q, got %q", OracleProviderGroq, OracleProviderGemini, cfg.Oracle.Provider)
	}

	switch cfg.Screening.Backend {
	case ScreeningBackendHTTP:
		if cfg.Screening.BaseURL == "" {
			return fmt.Errorf("screening.base_url is required")
		}
	case ScreeningBackendElasticsearch:
		if len(cfg.Screening.Elasticsearch.Addresses) == 0 {
			return fmt.Errorf("screening.elasticsearch.addresses or url is required")
		}
	default:
		return fmt.Errorf("screening.backend must be %q or %q, got %q", ScreeningBackendHTTP, ScreeningBackendElasticsearch, cfg.Screening.Backend)
	}

	if cfg.Registry.PerPage < 1 {
		return fmt.Errorf("registry.per_page must be positive")
	}

	return nil
}

// ValidateForWorkers checks the settings only the worker manager needs.
func ValidateForWorkers(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}

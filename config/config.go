package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Amap       AmapConfig
	LLM        LLMConfig
	Cache      CacheConfig
	Aggregator AggregatorConfig
	Report     ReportConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AmapConfig holds Amap (Gaode) API configuration
type AmapConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// LLMConfig holds text generation provider configuration. Providers lists
// the fallback order; entries without a key are skipped at startup.
type LLMConfig struct {
	Providers      []string      `mapstructure:"providers"`
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`

	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	OpenAIModel   string `mapstructure:"openai_model"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`

	AnthropicAPIKey  string `mapstructure:"anthropic_api_key"`
	AnthropicModel   string `mapstructure:"anthropic_model"`
	AnthropicBaseURL string `mapstructure:"anthropic_base_url"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`
}

// CacheConfig holds recommendation cache configuration
type CacheConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// AggregatorConfig holds aggregation pipeline tuning
type AggregatorConfig struct {
	MaxResults          int           `mapstructure:"max_results"`
	SimilarityThreshold float64       `mapstructure:"similarity_threshold"`
	BudgetSlack         float64       `mapstructure:"budget_slack"`
	ConnectorTimeout    time.Duration `mapstructure:"connector_timeout"`
	Debug               bool          `mapstructure:"debug"`
}

// ReportConfig holds HTML report output configuration
type ReportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/tripweaver/")

	v.SetEnvPrefix("TRIPWEAVER")
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Amap defaults
	v.SetDefault("amap.base_url", "https://restapi.amap.com")

	// LLM defaults
	v.SetDefault("llm.providers", []string{"openai", "anthropic", "gemini"})
	v.SetDefault("llm.attempt_timeout", "30s")
	v.SetDefault("llm.openai_model", "gpt-4o-mini")
	v.SetDefault("llm.anthropic_model", "claude-3-5-haiku-latest")
	v.SetDefault("llm.gemini_model", "gemini-1.5-flash")

	// Cache defaults
	v.SetDefault("cache.ttl", "6h")
	v.SetDefault("cache.max_entries", 10)

	// Aggregator defaults
	v.SetDefault("aggregator.max_results", 20)
	v.SetDefault("aggregator.similarity_threshold", 0.7)
	v.SetDefault("aggregator.budget_slack", 1.2)
	v.SetDefault("aggregator.connector_timeout", "20s")
	v.SetDefault("aggregator.debug", false)

	// Report defaults
	v.SetDefault("report.output_dir", "reports")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Aggregator.SimilarityThreshold <= 0 || config.Aggregator.SimilarityThreshold > 1 {
		return fmt.Errorf("aggregator similarity threshold must be in (0, 1], got: %.2f", config.Aggregator.SimilarityThreshold)
	}

	if config.Aggregator.BudgetSlack < 1 {
		return fmt.Errorf("aggregator budget slack must be >= 1, got: %.2f", config.Aggregator.BudgetSlack)
	}

	if config.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive, got: %d", config.Cache.MaxEntries)
	}

	for _, p := range config.LLM.Providers {
		switch p {
		case "openai", "anthropic", "gemini":
		default:
			return fmt.Errorf("unknown LLM provider %q (supported: openai, anthropic, gemini)", p)
		}
	}

	return nil
}

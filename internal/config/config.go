// Package config loads Life Orbit configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	DBPath string `yaml:"db_path" mapstructure:"db_path"`

	Embedding  ProviderConfig `yaml:"embedding" mapstructure:"embedding"`
	Classifier ProviderConfig `yaml:"classifier" mapstructure:"classifier"`

	Retrieval RetrievalConfig `yaml:"retrieval" mapstructure:"retrieval"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
}

// ProviderConfig configures one external capability.
type ProviderConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // gemini, ollama, openai, anthropic, none
	Model    string `yaml:"model" mapstructure:"model"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	Dims     int    `yaml:"dims" mapstructure:"dims"`
}

// RetrievalConfig tunes the classification pipeline.
type RetrievalConfig struct {
	TopK               int     `yaml:"top_k" mapstructure:"top_k"`
	DuplicateThreshold float64 `yaml:"duplicate_threshold" mapstructure:"duplicate_threshold"`
}

// SearchConfig tunes semantic search.
type SearchConfig struct {
	Limit     int     `yaml:"limit" mapstructure:"limit"`
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
	Semantic  bool    `yaml:"semantic" mapstructure:"semantic"`
}

var envVarRe = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)

func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DBPath: filepath.Join(home, ".life-orbit", "orbit.db"),
		Embedding: ProviderConfig{
			Provider: "gemini",
			Model:    "text-embedding-004",
			APIKey:   "$GEMINI_API_KEY",
			Dims:     768,
		},
		Classifier: ProviderConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			APIKey:   "$GEMINI_API_KEY",
		},
		Retrieval: RetrievalConfig{
			TopK:               5,
			DuplicateThreshold: 0.96,
		},
		Search: SearchConfig{
			Limit:     5,
			Threshold: 0.5,
			Semantic:  true,
		},
	}
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "life-orbit")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "life-orbit")
}

// setDefaults registers every key with viper so that AutomaticEnv can
// resolve LIFEORBIT_* overrides even when no config file exists.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.base_url", d.Embedding.BaseURL)
	v.SetDefault("embedding.api_key", d.Embedding.APIKey)
	v.SetDefault("embedding.dims", d.Embedding.Dims)
	v.SetDefault("classifier.provider", d.Classifier.Provider)
	v.SetDefault("classifier.model", d.Classifier.Model)
	v.SetDefault("classifier.base_url", d.Classifier.BaseURL)
	v.SetDefault("classifier.api_key", d.Classifier.APIKey)
	v.SetDefault("classifier.dims", d.Classifier.Dims)
	v.SetDefault("retrieval.top_k", d.Retrieval.TopK)
	v.SetDefault("retrieval.duplicate_threshold", d.Retrieval.DuplicateThreshold)
	v.SetDefault("search.limit", d.Search.Limit)
	v.SetDefault("search.threshold", d.Search.Threshold)
	v.SetDefault("search.semantic", d.Search.Semantic)
}

// Load reads configuration from config.yaml (cwd or the config dir) and
// LIFEORBIT_* environment variables, on top of the defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(configDir())

	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix("LIFEORBIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file; defaults plus env only.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	cfg.Embedding.APIKey = expandEnv(cfg.Embedding.APIKey)
	cfg.Embedding.BaseURL = expandEnv(cfg.Embedding.BaseURL)
	cfg.Classifier.APIKey = expandEnv(cfg.Classifier.APIKey)
	cfg.Classifier.BaseURL = expandEnv(cfg.Classifier.BaseURL)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and fills invalid numerics with defaults.
func (c *Config) Validate() error {
	validEmbed := map[string]bool{"gemini": true, "ollama": true, "openai": true, "none": true, "": true}
	if !validEmbed[c.Embedding.Provider] {
		return fmt.Errorf("config: embedding provider %q invalid (must be gemini, ollama, openai, or none)", c.Embedding.Provider)
	}
	validClassify := map[string]bool{"gemini": true, "anthropic": true, "openai": true, "none": true, "": true}
	if !validClassify[c.Classifier.Provider] {
		return fmt.Errorf("config: classifier provider %q invalid (must be gemini, anthropic, openai, or none)", c.Classifier.Provider)
	}
	if c.Embedding.Dims <= 0 {
		c.Embedding.Dims = 768
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 5
	}
	if c.Retrieval.DuplicateThreshold <= 0 || c.Retrieval.DuplicateThreshold > 1 {
		c.Retrieval.DuplicateThreshold = 0.96
	}
	if c.Search.Limit <= 0 {
		c.Search.Limit = 5
	}
	if c.Search.Threshold < -1 || c.Search.Threshold > 1 {
		c.Search.Threshold = 0.5
	}
	return nil
}

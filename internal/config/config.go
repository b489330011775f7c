// Package config loads service configuration from environment variables
// and an optional config.yaml, with env taking precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"port"`

	// Index storage connection
	StoreURL    string `mapstructure:"store_url"`
	StoreAPIKey string `mapstructure:"store_api_key"`

	// Auth for this service's own API
	APIKey string `mapstructure:"api_key"`

	// Claude page summaries (optional; extractive fallback without it)
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	AnthropicModel  string `mapstructure:"anthropic_model"`

	// Worker pool
	WorkerCount  int `mapstructure:"worker_count"`
	MaxQueueSize int `mapstructure:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`

	// Chunking overrides
	ChunkTargetSize int `mapstructure:"chunk_target_size"`
	ChunkMaxSize    int `mapstructure:"chunk_max_size"`
	ChunkMinViable  int `mapstructure:"chunk_min_viable"`

	// Outline matching
	MatchAcceptScore int `mapstructure:"match_accept_score"`

	// Job state
	JobTTL time.Duration `mapstructure:"job_ttl"`

	// PDF
	PDFFallbackPdftotext bool `mapstructure:"pdf_fallback_pdftotext"`
}

// Load reads configuration. A missing config.yaml is not an error.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("port", "8090")
	v.SetDefault("store_url", "http://localhost:8080")
	v.SetDefault("store_api_key", "")
	v.SetDefault("api_key", "")
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("anthropic_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("worker_count", 4)
	v.SetDefault("max_queue_size", 100)
	v.SetDefault("max_upload_bytes", int64(52428800)) // 50MB
	v.SetDefault("chunk_target_size", 1200)
	v.SetDefault("chunk_max_size", 2000)
	v.SetDefault("chunk_min_viable", 150)
	v.SetDefault("match_accept_score", 50)
	v.SetDefault("job_ttl", time.Hour)
	v.SetDefault("pdf_fallback_pdftotext", true)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/docindex")

	v.SetEnvPrefix("DOCINDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyFloors()
	return cfg, nil
}

func (c *Config) applyFloors() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = 4
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = 100
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 52428800
	}
	if c.ChunkTargetSize <= 0 {
		c.ChunkTargetSize = 1200
	}
	if c.ChunkMaxSize < c.ChunkTargetSize {
		c.ChunkMaxSize = c.ChunkTargetSize + 800
	}
	if c.ChunkMinViable <= 0 {
		c.ChunkMinViable = 150
	}
	if c.MatchAcceptScore <= 0 {
		c.MatchAcceptScore = 50
	}
	if c.JobTTL <= 0 {
		c.JobTTL = time.Hour
	}
}

// Validate checks required settings for serving.
func (c Config) Validate() error {
	if c.StoreAPIKey == "" {
		return fmt.Errorf("DOCINDEX_STORE_API_KEY is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("DOCINDEX_API_KEY is required")
	}
	return nil
}

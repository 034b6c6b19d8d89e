package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Salesflow SalesflowConfig `yaml:"salesflow"`
	HTTP      HTTPConfig      `yaml:"http"`
	Shopify   ShopifyConfig   `yaml:"shopify"`
	Amplifier AmplifierConfig `yaml:"amplifier"`
	Printful  PrintfulConfig  `yaml:"printful"`
	Refund    RefundConfig    `yaml:"refund"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type SalesflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// HTTPConfig governs the shared request engine and paginators.
type HTTPConfig struct {
	Timeout     time.Duration   `yaml:"timeout"`
	MaxAttempts int             `yaml:"max_attempts"`
	BackoffBase time.Duration   `yaml:"backoff_base"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig shapes the proactive inter-page courtesy throttle.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

type ShopifyConfig struct {
	Store      string `yaml:"store"`
	Token      string `yaml:"token"`
	APIVersion string `yaml:"api_version"`
	PageSize   int    `yaml:"page_size"`
}

type AmplifierConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	PerPage int    `yaml:"per_page"`
}

type PrintfulConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"`
	Limit   int    `yaml:"limit"`
}

// RefundConfig paces the batch refund processor. Delay is the fixed
// wait between consecutive refunds, independent of 429 handling.
type RefundConfig struct {
	Delay   time.Duration `yaml:"delay"`
	Notify  bool          `yaml:"notify"`
	Restock bool          `yaml:"restock"`
}

type StorageConfig struct {
	S3 S3Config `yaml:"s3"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Prefix          string `yaml:"prefix"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	MaxAge     int    `yaml:"max_age"`
	CloudWatch bool   `yaml:"cloudwatch"`
	Namespace  string `yaml:"namespace"`
}

// LoadConfig reads the YAML configuration, applies environment variable
// overrides for credentials, and validates the result. Credentials are
// always passed on as part of the returned Config value; nothing in this
// package keeps process-wide mutable state.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Default returns the built-in configuration used when no config file is
// present. Credentials still come from the environment.
func Default() *Config {
	cfg := defaultConfig()
	cfg.Salesflow = SalesflowConfig{Name: "salesflow", Version: "dev"}
	applyEnvOverrides(cfg)
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:     30 * time.Second,
			MaxAttempts: 3,
			BackoffBase: time.Second,
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 2,
				BurstSize:         1,
			},
		},
		Shopify:   ShopifyConfig{APIVersion: "2025-10", PageSize: 250},
		Amplifier: AmplifierConfig{BaseURL: "https://api.amplifier.com", PerPage: 250},
		Printful:  PrintfulConfig{BaseURL: "https://api.printful.com", Limit: 100},
		Refund:    RefundConfig{Delay: 12 * time.Second, Restock: true},
		Logging:   LoggingConfig{Level: "info", Format: "text", Output: "stdout"},
	}
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("SHOPIFY_STORE"); v != "" {
		config.Shopify.Store = strings.TrimSpace(v)
	}
	if v := os.Getenv("SHOPIFY_TOKEN"); v != "" {
		config.Shopify.Token = strings.TrimSpace(v)
	}
	if v := os.Getenv("AMPLIFIER_KEY"); v != "" {
		config.Amplifier.APIKey = strings.TrimSpace(v)
	}
	if v := os.Getenv("PRINTFUL_TOKEN"); v != "" {
		config.Printful.Token = strings.TrimSpace(v)
	}

	if config.Storage.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Storage.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Storage.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Storage.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			config.Storage.S3.Bucket = strings.TrimSpace(v)
		}
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Salesflow.Name == "" {
		return fmt.Errorf("salesflow.name is required")
	}
	if cfg.Salesflow.Version == "" {
		return fmt.Errorf("salesflow.version is required")
	}

	if cfg.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be greater than 0")
	}
	if cfg.HTTP.MaxAttempts <= 0 {
		return fmt.Errorf("http.max_attempts must be greater than 0")
	}
	if cfg.HTTP.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("http.rate_limit.requests_per_second must be greater than 0")
	}

	if cfg.Shopify.PageSize <= 0 || cfg.Shopify.PageSize > 250 {
		return fmt.Errorf("shopify.page_size must be between 1 and 250")
	}
	if cfg.Amplifier.PerPage <= 0 {
		return fmt.Errorf("amplifier.per_page must be greater than 0")
	}
	if cfg.Printful.Limit <= 0 {
		return fmt.Errorf("printful.limit must be greater than 0")
	}

	if cfg.Refund.Delay < 0 {
		return fmt.Errorf("refund.delay must not be negative")
	}

	if cfg.Storage.S3.Enabled {
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when S3 is enabled")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required when S3 is enabled")
		}
	}

	return nil
}

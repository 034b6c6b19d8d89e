package config

import (
	"os"
	"testing"
	"time"
)

// writeTempConfig creates a minimal configuration file required for
// LoadConfig and returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "cfg-*.yml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	return f.Name()
}

const minimalConfig = `salesflow:
  name: "TestApp"
  version: "1.0"
shopify:
  store: "example.myshopify.com"
  token: "shpat_test"
`

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, minimalConfig)
	defer os.Remove(path)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Salesflow.Name != "TestApp" {
		t.Errorf("unexpected name: %s", cfg.Salesflow.Name)
	}
	if cfg.Shopify.Store != "example.myshopify.com" {
		t.Errorf("unexpected store: %s", cfg.Shopify.Store)
	}
	// Defaults fill in everything the file omits.
	if cfg.HTTP.MaxAttempts != 3 {
		t.Errorf("unexpected max attempts: %d", cfg.HTTP.MaxAttempts)
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("unexpected timeout: %v", cfg.HTTP.Timeout)
	}
	if cfg.Shopify.APIVersion != "2025-10" {
		t.Errorf("unexpected api version: %s", cfg.Shopify.APIVersion)
	}
	if cfg.Refund.Delay != 12*time.Second {
		t.Errorf("unexpected refund delay: %v", cfg.Refund.Delay)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeTempConfig(t, minimalConfig)
	defer os.Remove(path)

	t.Setenv("SHOPIFY_TOKEN", "shpat_from_env")
	t.Setenv("AMPLIFIER_KEY", "amp_from_env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Shopify.Token != "shpat_from_env" {
		t.Errorf("token override not applied: %s", cfg.Shopify.Token)
	}
	if cfg.Amplifier.APIKey != "amp_from_env" {
		t.Errorf("api key override not applied: %s", cfg.Amplifier.APIKey)
	}
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing name", func(c *Config) { c.Salesflow.Name = "" }},
		{"missing version", func(c *Config) { c.Salesflow.Version = "" }},
		{"zero attempts", func(c *Config) { c.HTTP.MaxAttempts = 0 }},
		{"oversized page", func(c *Config) { c.Shopify.PageSize = 500 }},
		{"s3 without bucket", func(c *Config) {
			c.Storage.S3.Enabled = true
			c.Storage.S3.Region = "us-east-1"
		}},
	}
	for _, tc := range cases {
		cfg := defaultConfig()
		cfg.Salesflow = SalesflowConfig{Name: "app", Version: "1.0"}
		tc.mutate(cfg)
		if err := validateConfig(cfg); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(appEnvVar, "prod")
	if env := AppEnvironment(); env != EnvironmentProduction {
		t.Fatalf("alias not resolved: %s", env)
	}
	// No production variant on disk: requested path wins.
	if got := ResolveConfigPath("config/config.yml"); got != "config/config.yml" {
		t.Errorf("unexpected path: %s", got)
	}
	if !IsProductionLike(EnvironmentProduction) || IsProductionLike(EnvironmentDevelopment) {
		t.Error("IsProductionLike misclassified environment")
	}
}

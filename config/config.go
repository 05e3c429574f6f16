// Package config loads service configuration from a YAML file with
// environment overrides for deployment settings.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all tunable settings for the travel agent backend.
type Config struct {
	Server struct {
		Host        string `yaml:"host"`
		Port        int    `yaml:"port"`
		FrontendURL string `yaml:"frontend_url"`
	} `yaml:"server"`

	OpenAI struct {
		Model              string  `yaml:"model"`
		MaxChatTokens      int     `yaml:"max_chat_tokens"`
		MaxItineraryTokens int     `yaml:"max_itinerary_tokens"`
		Temperature        float64 `yaml:"temperature"`
	} `yaml:"openai"`

	// ShowRatio caps the default "show listings" path and CheaperRatio the
	// "cheaper options" path; both are fractions of the user's budget.
	Filter struct {
		ShowRatio     float64 `yaml:"show_ratio"`
		CheaperRatio  float64 `yaml:"cheaper_ratio"`
		BackfillQuota int     `yaml:"backfill_quota"`
	} `yaml:"filter"`

	Listings struct {
		MockCount       int    `yaml:"mock_count"`
		SnapshotDir     string `yaml:"snapshot_dir"`
		CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
	} `yaml:"listings"`
}

// LoadConfig loads configuration from a YAML file and applies environment
// overrides on top.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// GetDefaultConfig returns a default configuration.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8000
	cfg.Server.FrontendURL = "http://localhost:3000"
	cfg.OpenAI.Model = "gpt-4o-mini"
	cfg.OpenAI.MaxChatTokens = 1000
	cfg.OpenAI.MaxItineraryTokens = 2000
	cfg.OpenAI.Temperature = 0.7
	cfg.Filter.ShowRatio = 0.6
	cfg.Filter.CheaperRatio = 0.4
	cfg.Filter.BackfillQuota = 5
	cfg.Listings.MockCount = 10
	cfg.Listings.SnapshotDir = "."
	cfg.Listings.CacheTTLMinutes = 30
	return cfg
}

// GetDefaultConfigWithEnv returns defaults with environment overrides
// applied, for use when no config file is present.
func GetDefaultConfigWithEnv() *Config {
	cfg := GetDefaultConfig()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		c.Server.FrontendURL = frontend
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		c.OpenAI.Model = model
	}
}

// APIKey returns the OpenAI API key from the environment. The key never
// lives in the config file. An empty result means completions are not
// configured; callers surface that to the user instead of failing startup.
func APIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

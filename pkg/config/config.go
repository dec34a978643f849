// Package config loads the backend descriptor and model registry from a
// YAML file, with environment fallbacks for credentials. CLI flag parsing
// stays in cmd; this package only maps a file to typed configuration.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/jg-phare/loom/pkg/genai"
)

// Config is the top-level file shape.
type Config struct {
	Auth    Auth                 `yaml:"auth"`
	Session Session              `yaml:"session"`
	Models  map[string]ModelInfo `yaml:"models"`
}

// Auth describes which backend to construct and how to reach it.
type Auth struct {
	Type         string            `yaml:"type"` // defaults to "openai-compatible"
	APIKey       string            `yaml:"api_key"`
	BaseURL      string            `yaml:"base_url"`
	Model        string            `yaml:"model"`
	CacheControl bool              `yaml:"cache_control"`
	Headers      map[string]string `yaml:"headers"`
}

// Session controls where emitted messages are persisted.
type Session struct {
	Dir string `yaml:"dir"` // empty = default base dir
}

// ModelInfo carries per-model limits and pricing overrides.
type ModelInfo struct {
	ContextWindow      int     `yaml:"context_window"`
	MaxOutputTokens    int     `yaml:"max_output_tokens"`
	InputPerMTok       float64 `yaml:"input_per_mtok"`
	OutputPerMTok      float64 `yaml:"output_per_mtok"`
	CachedInputPerMTok float64 `yaml:"cached_input_per_mtok"`
}

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv substitutes ${VAR} references with environment values.
func expandEnv(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(m[2 : len(m)-1])
	})
}

// Load reads and parses a config file. A missing file is an error; an
// absent path yields an empty config filled from the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Auth.Type == "" {
		c.Auth.Type = string(genai.AuthOpenAICompatible)
	}
	c.Auth.APIKey = expandEnv(c.Auth.APIKey)
	c.Auth.BaseURL = expandEnv(c.Auth.BaseURL)
	if c.Auth.APIKey == "" {
		c.Auth.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Auth.BaseURL == "" {
		c.Auth.BaseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if c.Auth.Model == "" {
		c.Auth.Model = os.Getenv("LOOM_MODEL")
	}
}

// AuthConfig converts the file shape into the generator descriptor.
func (c *Config) AuthConfig() genai.AuthConfig {
	return genai.AuthConfig{
		Type:               genai.AuthType(c.Auth.Type),
		APIKey:             c.Auth.APIKey,
		BaseURL:            c.Auth.BaseURL,
		Model:              c.Auth.Model,
		EnableCacheControl: c.Auth.CacheControl,
		Headers:            c.Auth.Headers,
	}
}

// Package config loads the server configuration.
//
// Sources are layered, later ones winning: built-in defaults, an optional
// YAML file, a .env file in the working directory, then environment
// variables. Command-line flags are applied on top by cmd/gpt-agent, which
// calls Normalize afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/llm"
)

// Supported providers.
const (
	ProviderOpenAI    = llm.ProviderOpenAI
	ProviderAnthropic = llm.ProviderAnthropic
	ProviderGemini    = llm.ProviderGemini
)

// Defaults.
const (
	DefaultProvider        = ProviderOpenAI
	DefaultModel           = "gpt-4o-mini"
	DefaultSearchCacheSize = 128
)

// defaultModels maps each provider to the model used when none is configured.
var defaultModels = map[string]string{
	ProviderOpenAI:    DefaultModel,
	ProviderAnthropic: "claude-3-5-haiku-latest",
	ProviderGemini:    "gemini-2.0-flash",
}

// apiKeyEnv lists, per provider, the environment variables holding its key.
var apiKeyEnv = map[string][]string{
	ProviderOpenAI:    {"OPENAI_API_KEY"},
	ProviderAnthropic: {"ANTHROPIC_API_KEY"},
	ProviderGemini:    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

// DefaultModelFor returns the model used for provider when none is
// configured, or "" for an unknown provider.
func DefaultModelFor(provider string) string {
	return defaultModels[strings.ToLower(provider)]
}

// getenv is a package-level var to allow test injection.
var getenv = os.Getenv

// Config is the resolved server configuration.
type Config struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model"`
	APIKey          string `yaml:"api_key"`
	BaseURL         string `yaml:"base_url"`
	Debug           bool   `yaml:"debug"`
	JournalPath     string `yaml:"journal_path"`
	MetricsAddr     string `yaml:"metrics_addr"`
	SearchCacheSize int    `yaml:"search_cache_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider:        DefaultProvider,
		SearchCacheSize: DefaultSearchCacheSize,
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty), .env and the environment, then normalizes it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// A missing .env is the normal case.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(getenv("GPT_AGENT_PROVIDER")); v != "" {
		c.Provider = v
	}
	if v := firstNonEmpty(getenv("GPT_AGENT_MODEL"), getenv("OPENAI_MODEL")); v != "" {
		c.Model = v
	}
	if v := strings.TrimSpace(getenv("OPENAI_BASE_URL")); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(getenv("GPT_AGENT_JOURNAL")); v != "" {
		c.JournalPath = v
	}
	if v := strings.TrimSpace(getenv("GPT_AGENT_METRICS_ADDR")); v != "" {
		c.MetricsAddr = v
	}
	if v := strings.TrimSpace(getenv("DEBUG")); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DEBUG: %w", err)
		}
		c.Debug = debug
	}
	if v := strings.TrimSpace(getenv("GPT_AGENT_SEARCH_CACHE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GPT_AGENT_SEARCH_CACHE: %w", err)
		}
		c.SearchCacheSize = n
	}
	return nil
}

// Normalize lowercases the provider, fills the provider's default model
// and reads the provider's API key from the environment when unset.
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if strings.TrimSpace(c.Model) == "" {
		c.Model = defaultModels[c.Provider]
	}
	if c.APIKey == "" {
		for _, name := range apiKeyEnv[c.Provider] {
			if v := strings.TrimSpace(getenv(name)); v != "" {
				c.APIKey = v
				break
			}
		}
	}
}

// Validate reports configuration errors that prevent startup.
func (c *Config) Validate() error {
	var errs []error
	if _, ok := defaultModels[c.Provider]; !ok {
		errs = append(errs, fmt.Errorf("unknown provider %q", c.Provider))
	}
	if c.Model == "" {
		errs = append(errs, errors.New("model must not be empty"))
	}
	if c.SearchCacheSize < 0 {
		errs = append(errs, fmt.Errorf("search_cache_size must not be negative (got %d)", c.SearchCacheSize))
	}
	return errors.Join(errs...)
}

// Warnings reports problems that do not stop the server but will make
// completions fail.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.APIKey == "" {
		names := strings.Join(apiKeyEnv[c.Provider], " or ")
		warnings = append(warnings, fmt.Sprintf("no API key configured for provider %s; set %s", c.Provider, names))
	}
	return warnings
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

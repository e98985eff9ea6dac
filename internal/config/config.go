// Package config handles configuration loading and management for the
// ROMA gateway. It supports XDG config paths, project-level overrides,
// and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/sentientlabs/romagate/pkg/models"
)

// Config holds all configuration for the gateway. It is built once at
// startup and read-only during request processing.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Provider    ProviderConfig    `mapstructure:"provider"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	// Models holds per-provider, per-tier model name overrides,
	// e.g. models.anthropic.blitz. Unset cells fall back to the
	// built-in model table.
	Models  map[string]map[string]string `mapstructure:"models"`
	Breaker BreakerConfig                `mapstructure:"breaker"`
	History HistoryConfig                `mapstructure:"history"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// ProviderConfig holds provider selection settings.
type ProviderConfig struct {
	// Default is the provider used when a request names none.
	Default string `mapstructure:"default"`
}

// CredentialsConfig holds one API key per provider family.
type CredentialsConfig struct {
	Anthropic   string `mapstructure:"anthropic"`
	OpenAI      string `mapstructure:"openai"`
	OpenRouter  string `mapstructure:"openrouter"`
	XAI         string `mapstructure:"xai"`
	HuggingFace string `mapstructure:"huggingface"`
}

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	// Threshold is the consecutive failure count that opens a circuit.
	Threshold int `mapstructure:"threshold"`
	// Cooldown is how long an open circuit stays open before a probe.
	Cooldown time.Duration `mapstructure:"cooldown"`
}

// HistoryConfig holds solve-history store settings.
type HistoryConfig struct {
	// Enabled toggles recording of dispatch outcomes.
	Enabled bool `mapstructure:"enabled"`
	// Path is the SQLite database file. Empty means the default
	// XDG data path.
	Path string `mapstructure:"path"`
}

// DefaultProvider returns the configured default provider.
func (c *Config) DefaultProvider() models.Provider {
	return models.Provider(c.Provider.Default)
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables. Precedence (highest to lowest):
// 1. Environment variables (AI_PROVIDER, ANTHROPIC_API_KEY, ...)
// 2. Project config (.romagate.yaml in current directory or parent)
// 3. User config (~/.config/romagate/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()

	v.BindEnv("provider.default", "AI_PROVIDER")
	v.BindEnv("credentials.anthropic", "ANTHROPIC_API_KEY")
	v.BindEnv("credentials.openai", "OPENAI_API_KEY")
	v.BindEnv("credentials.openrouter", "OPENROUTER_API_KEY")
	v.BindEnv("credentials.xai", "XAI_API_KEY")
	v.BindEnv("credentials.huggingface", "HF_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandCredentials(cfg)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandCredentials(cfg)

	return cfg, nil
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Addr: ":8001"},
		Provider: ProviderConfig{Default: "openrouter"},
		Breaker: BreakerConfig{
			Threshold: 5,
			Cooldown:  30 * time.Second,
		},
		History: HistoryConfig{Enabled: true},
	}
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8001")

	// OpenRouter is the most flexible default: it fronts all models.
	v.SetDefault("provider.default", "openrouter")

	v.SetDefault("breaker.threshold", 5)
	v.SetDefault("breaker.cooldown", "30s")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
}

// getUserConfigDir returns the XDG config directory for the gateway.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "romagate")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "romagate")
	}
	return filepath.Join(home, ".config", "romagate")
}

// findProjectConfig searches for .romagate.yaml in the current directory
// and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".romagate.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandCredentials expands ${VAR} references in configured keys.
func expandCredentials(cfg *Config) {
	cfg.Credentials.Anthropic = os.ExpandEnv(cfg.Credentials.Anthropic)
	cfg.Credentials.OpenAI = os.ExpandEnv(cfg.Credentials.OpenAI)
	cfg.Credentials.OpenRouter = os.ExpandEnv(cfg.Credentials.OpenRouter)
	cfg.Credentials.XAI = os.ExpandEnv(cfg.Credentials.XAI)
	cfg.Credentials.HuggingFace = os.ExpandEnv(cfg.Credentials.HuggingFace)
}

// ModelOverride returns the configured model name for a provider/tier
// cell, or "" when the built-in default should be used.
func (c *Config) ModelOverride(provider models.Provider, tier models.Tier) string {
	if c.Models == nil {
		return ""
	}
	tiers, ok := c.Models[string(provider)]
	if !ok {
		return ""
	}
	return tiers[string(tier)]
}

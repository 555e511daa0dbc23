package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tailscale/hujson"
)

const (
	DefaultAPIURL          = "https://gpt.code-x.my/api/generate"
	DefaultModel           = "qwen2.5:latest"
	DefaultAPIKeyEnv       = "OLLAMA_API_KEY"
	DefaultMaxPromptTokens = 2048
	DefaultTimeoutSeconds  = 60
	DefaultRetryAttempts   = 3
	DefaultRetryDelay      = 2
	DefaultSpinnerLabel    = "Thinking..."
)

// Config represents the application configuration
type Config struct {
	API       APIConfig     `json:"api"`
	Retry     RetryConfig   `json:"retry"`
	Display   DisplayConfig `json:"display"`
	LogLevel  string        `json:"log_level"`
	LogFormat string        `json:"log_format"`
	LogFile   string        `json:"log_file"`
}

// APIConfig holds the generate endpoint configuration
type APIConfig struct {
	URL             string `json:"url"`
	Model           string `json:"model"`
	APIKeyEnv       string `json:"api_key_env"`
	TimeoutSeconds  int    `json:"timeout_seconds"`
	MaxPromptTokens int    `json:"max_prompt_tokens"`
}

// RetryConfig controls how transient dispatch failures are retried
type RetryConfig struct {
	MaxAttempts  int `json:"max_attempts"`
	DelaySeconds int `json:"delay_seconds"`
}

// DisplayConfig holds terminal rendering options
type DisplayConfig struct {
	Spinner       *bool  `json:"spinner,omitempty"`
	Label         string `json:"label"`
	MarkdownStyle string `json:"markdown_style"`
}

// SpinnerEnabled reports whether the progress indicator should be shown.
// Unset means enabled.
func (d DisplayConfig) SpinnerEnabled() bool {
	return d.Spinner == nil || *d.Spinner
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		API: APIConfig{
			URL:             DefaultAPIURL,
			Model:           DefaultModel,
			APIKeyEnv:       DefaultAPIKeyEnv,
			TimeoutSeconds:  DefaultTimeoutSeconds,
			MaxPromptTokens: DefaultMaxPromptTokens,
		},
		Retry: RetryConfig{
			MaxAttempts:  DefaultRetryAttempts,
			DelaySeconds: DefaultRetryDelay,
		},
		Display: DisplayConfig{
			Label:         DefaultSpinnerLabel,
			MarkdownStyle: "auto",
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load loads configuration from the specified path.
// If the file doesn't exist, creates one with default values.
// The file may contain comments and trailing commas.
// Environment variables override file values.
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		cfg := Default()
		if err := Save(configPath, cfg); err != nil {
			return Config{}, fmt.Errorf("failed to create default config: %w", err)
		}
		return applyEnvironmentOverrides(cfg), nil
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	// An explicit delay_seconds of 0 is kept; only a missing key is back-filled.
	var present struct {
		Retry struct {
			DelaySeconds *int `json:"delay_seconds"`
		} `json:"retry"`
	}
	if err := json.Unmarshal(std, &present); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg, present.Retry.DelaySeconds != nil)
	return applyEnvironmentOverrides(cfg), nil
}

// applyDefaults fills zero-valued fields left out of older config files.
func applyDefaults(cfg *Config, delaySet bool) {
	def := Default()
	if strings.TrimSpace(cfg.API.URL) == "" {
		cfg.API.URL = def.API.URL
	}
	if strings.TrimSpace(cfg.API.Model) == "" {
		cfg.API.Model = def.API.Model
	}
	if strings.TrimSpace(cfg.API.APIKeyEnv) == "" {
		cfg.API.APIKeyEnv = def.API.APIKeyEnv
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = def.API.TimeoutSeconds
	}
	if cfg.API.MaxPromptTokens == 0 {
		cfg.API.MaxPromptTokens = def.API.MaxPromptTokens
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = def.Retry.MaxAttempts
	}
	if !delaySet {
		cfg.Retry.DelaySeconds = def.Retry.DelaySeconds
	}
	if cfg.Display.Label == "" {
		cfg.Display.Label = def.Display.Label
	}
	if cfg.Display.MarkdownStyle == "" {
		cfg.Display.MarkdownStyle = def.Display.MarkdownStyle
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = def.LogFormat
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config
func applyEnvironmentOverrides(cfg Config) Config {
	if v := os.Getenv("CODEX_API_URL"); v != "" {
		cfg.API.URL = v
	}
	if v := os.Getenv("CODEX_MODEL"); v != "" {
		cfg.API.Model = v
	}
	if v := os.Getenv("CODEX_MAX_PROMPT_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.MaxPromptTokens = n
		}
	}
	if v := os.Getenv("CODEX_API_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("CODEX_RETRY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Retry.MaxAttempts = n
		}
	}
	if v := os.Getenv("CODEX_LOG_LEVEL"); v != "" {
		switch level := strings.ToLower(v); level {
		case "trace", "debug", "info", "warn", "error":
			cfg.LogLevel = level
		}
	}
	return cfg
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.URL) == "" {
		return fmt.Errorf("api url is required")
	}
	u, err := url.Parse(c.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api url must be an absolute http(s) URL, got: %q", c.API.URL)
	}

	if strings.TrimSpace(c.API.Model) == "" {
		return fmt.Errorf("api model is required")
	}

	if strings.TrimSpace(c.API.APIKeyEnv) == "" {
		return fmt.Errorf("api_key_env is required")
	}

	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got: %d", c.API.TimeoutSeconds)
	}

	if c.API.MaxPromptTokens < 0 {
		return fmt.Errorf("max_prompt_tokens must not be negative, got: %d", c.API.MaxPromptTokens)
	}

	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry max_attempts must be positive, got: %d", c.Retry.MaxAttempts)
	}

	if c.Retry.DelaySeconds < 0 {
		return fmt.Errorf("retry delay_seconds must not be negative, got: %d", c.Retry.DelaySeconds)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid log_format: %q", c.LogFormat)
	}

	return nil
}

// Dir returns the directory holding codex state
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".codex"
	}
	return filepath.Join(homeDir, ".codex")
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	return filepath.Join(Dir(), "config.json")
}

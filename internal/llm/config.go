package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "mistral", "anthropic", "openai", "gemini", "openrouter",
	// "offline", "mock"
	Provider string `yaml:"provider"`

	Mistral    MistralConfig    `yaml:"mistral"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`
}

// MistralConfig holds Mistral-specific configuration.
type MistralConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "mistral-small"
	BaseURL string `yaml:"base_url"` // Default: "https://api.mistral.ai/v1"
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `yaml:"base_url"` // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "mistralai/mistral-small-3.2-24b-instruct"
	BaseURL string `yaml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures how long rate-limited requests are retried.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "mistral",
		Mistral: MistralConfig{
			Model: "mistral-small",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "mistralai/mistral-small-3.2-24b-instruct",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     20 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overrides fields from SKILLCHECK_* environment variables.
func (c *Config) ApplyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Provider, "SKILLCHECK_LLM_PROVIDER")

	setString(&c.Mistral.APIKey, "SKILLCHECK_MISTRAL_API_KEY")
	setString(&c.Mistral.Model, "SKILLCHECK_MISTRAL_MODEL")
	setString(&c.Mistral.BaseURL, "SKILLCHECK_MISTRAL_BASE_URL")

	setString(&c.Anthropic.APIKey, "SKILLCHECK_ANTHROPIC_API_KEY")
	setString(&c.Anthropic.Model, "SKILLCHECK_ANTHROPIC_MODEL")

	setString(&c.OpenAI.APIKey, "SKILLCHECK_OPENAI_API_KEY")
	setString(&c.OpenAI.Model, "SKILLCHECK_OPENAI_MODEL")
	setString(&c.OpenAI.BaseURL, "SKILLCHECK_OPENAI_BASE_URL")

	setString(&c.Gemini.APIKey, "SKILLCHECK_GEMINI_API_KEY")
	setString(&c.Gemini.Model, "SKILLCHECK_GEMINI_MODEL")

	setString(&c.OpenRouter.APIKey, "SKILLCHECK_OPENROUTER_API_KEY")
	setString(&c.OpenRouter.Model, "SKILLCHECK_OPENROUTER_MODEL")
}

// DiscoverConfig probes standard API key env vars in priority order
// (Mistral → Gemini → OpenAI → Anthropic → OpenRouter) and returns a
// Config for the first provider whose key is found. Returns
// (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("MISTRAL_API_KEY"); k != "" {
		cfg.Provider = "mistral"
		cfg.Mistral.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// HasCredentials reports whether the selected provider can be constructed
// without further configuration.
func (c Config) HasCredentials() bool {
	return c.Validate() == nil
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "mistral":
		if c.Mistral.APIKey == "" {
			return fmt.Errorf("SKILLCHECK_MISTRAL_API_KEY is required for the mistral provider")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("SKILLCHECK_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("SKILLCHECK_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("SKILLCHECK_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("SKILLCHECK_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "offline", "mock":
		// No API key needed.
	default:
		registryMu.RLock()
		_, ok := registry[c.Provider]
		registryMu.RUnlock()
		if !ok {
			return fmt.Errorf("unknown LLM provider: %q", c.Provider)
		}
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("retry max_attempts must not be negative")
	}
	return nil
}

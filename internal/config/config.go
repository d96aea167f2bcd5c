package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/provider/anthropic"
	"github.com/mcandiri/LLMForge/internal/provider/gemini"
	"github.com/mcandiri/LLMForge/internal/provider/ollama"
	"github.com/mcandiri/LLMForge/internal/provider/openai"
	"github.com/mcandiri/LLMForge/internal/resilience"
)

// Config represents the engine configuration.
type Config struct {
	OpenAI       openai.Config
	Anthropic    anthropic.Config
	Gemini       gemini.Config
	Ollama       ollama.Config
	Breaker      BreakerConfig
	Retry        RetryConfig
	Orchestrator OrchestratorConfig
}

// BreakerConfig contains circuit breaker settings shared by all providers.
type BreakerConfig struct {
	FailureThreshold         int  `env:"BREAKER_FAILURE_THRESHOLD"  envDefault:"5"`
	OpenDurationSeconds      int  `env:"BREAKER_OPEN_SECONDS"       envDefault:"30"`
	HalfOpenSuccessThreshold int  `env:"BREAKER_HALFOPEN_SUCCESSES" envDefault:"2"`
	Enabled                  bool `env:"BREAKER_ENABLED"            envDefault:"true"`
}

// RetryConfig contains the inter-attempt retry policy settings.
type RetryConfig struct {
	BaseDelayMs int `env:"RETRY_BASE_DELAY_MS" envDefault:"1000"`
	MaxDelayMs  int `env:"RETRY_MAX_DELAY_MS"  envDefault:"30000"`
	MaxAttempts int `env:"RETRY_MAX_ATTEMPTS"  envDefault:"3"`
}

// OrchestratorConfig contains orchestration loop settings.
type OrchestratorConfig struct {
	MaxAttempts int `env:"ORCHESTRATOR_MAX_ATTEMPTS" envDefault:"3"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*BreakerConfig
	*RetryConfig
	*OrchestratorConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Breaker,
		&cfg.Retry,
		&cfg.Orchestrator,
	}
}

// ResilienceBreakerConfig converts the env settings into the breaker's
// own config type.
func (c *BreakerConfig) ResilienceBreakerConfig() resilience.BreakerConfig {
	return resilience.BreakerConfig{
		FailureThreshold:         c.FailureThreshold,
		OpenDuration:             time.Duration(c.OpenDurationSeconds) * time.Second,
		HalfOpenSuccessThreshold: c.HalfOpenSuccessThreshold,
		Enabled:                  c.Enabled,
	}
}

// RetryPolicy materialises the configured rate-limit aware retry policy.
func (c *RetryConfig) RetryPolicy() resilience.RetryPolicy {
	return resilience.NewRateLimitAware(
		time.Duration(c.BaseDelayMs)*time.Millisecond,
		time.Duration(c.MaxDelayMs)*time.Millisecond,
		c.MaxAttempts,
	)
}

// OpenAIModelConfig maps the OpenAI env settings onto the adapter config.
func (c *Config) OpenAIModelConfig() domain.ModelConfig {
	return domain.ModelConfig{
		APIKey:         c.OpenAI.APIKey,
		Model:          c.OpenAI.Model,
		MaxTokens:      c.OpenAI.MaxTokens,
		TimeoutSeconds: c.OpenAI.Timeout,
		BaseURL:        c.OpenAI.BaseURL,
		Temperature:    c.OpenAI.Temperature,
	}
}

// AnthropicModelConfig maps the Anthropic env settings onto the adapter config.
func (c *Config) AnthropicModelConfig() domain.ModelConfig {
	return domain.ModelConfig{
		APIKey:         c.Anthropic.APIKey,
		Model:          c.Anthropic.Model,
		MaxTokens:      c.Anthropic.MaxTokens,
		TimeoutSeconds: c.Anthropic.Timeout,
		BaseURL:        c.Anthropic.BaseURL,
		Temperature:    c.Anthropic.Temperature,
	}
}

// GeminiModelConfig maps the Gemini env settings onto the adapter config.
func (c *Config) GeminiModelConfig() domain.ModelConfig {
	return domain.ModelConfig{
		APIKey:         c.Gemini.APIKey,
		Model:          c.Gemini.Model,
		MaxTokens:      c.Gemini.MaxTokens,
		TimeoutSeconds: c.Gemini.Timeout,
		BaseURL:        c.Gemini.BaseURL,
		Temperature:    c.Gemini.Temperature,
	}
}

// OllamaModelConfig maps the Ollama env settings onto the adapter config.
func (c *Config) OllamaModelConfig() domain.ModelConfig {
	return domain.ModelConfig{
		Model:          c.Ollama.Model,
		TimeoutSeconds: c.Ollama.Timeout,
		BaseURL:        c.Ollama.BaseURL,
		Temperature:    c.Ollama.Temperature,
	}
}

package openai

// Config contains OpenAI provider configuration.
type Config struct {
	APIKey      string  `env:"OPENAI_API_KEY"`
	Model       string  `env:"OPENAI_MODEL"       envDefault:"gpt-4o-mini"`
	BaseURL     string  `env:"OPENAI_BASE_URL"`
	Timeout     int     `env:"OPENAI_TIMEOUT"     envDefault:"60"`
	MaxTokens   int     `env:"OPENAI_MAX_TOKENS"  envDefault:"1024"`
	Temperature float64 `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
}

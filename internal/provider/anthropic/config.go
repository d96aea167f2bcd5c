package anthropic

// Config contains Anthropic provider configuration.
type Config struct {
	APIKey      string  `env:"ANTHROPIC_API_KEY"`
	Model       string  `env:"ANTHROPIC_MODEL"       envDefault:"claude-3-5-haiku-latest"`
	BaseURL     string  `env:"ANTHROPIC_BASE_URL"    envDefault:"https://api.anthropic.com"`
	Timeout     int     `env:"ANTHROPIC_TIMEOUT"     envDefault:"60"`
	MaxTokens   int     `env:"ANTHROPIC_MAX_TOKENS"  envDefault:"1024"`
	Temperature float64 `env:"ANTHROPIC_TEMPERATURE" envDefault:"0.7"`
}

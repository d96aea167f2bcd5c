package gemini

// Config contains Gemini provider configuration.
type Config struct {
	APIKey      string  `env:"GEMINI_API_KEY"`
	Model       string  `env:"GEMINI_MODEL"       envDefault:"gemini-1.5-flash"`
	BaseURL     string  `env:"GEMINI_BASE_URL"    envDefault:"https://generativelanguage.googleapis.com"`
	Timeout     int     `env:"GEMINI_TIMEOUT"     envDefault:"60"`
	MaxTokens   int     `env:"GEMINI_MAX_TOKENS"  envDefault:"1024"`
	Temperature float64 `env:"GEMINI_TEMPERATURE" envDefault:"0.7"`
}

package ollama

// Config contains Ollama provider configuration. Ollama is a local
// runtime; no API key is involved.
type Config struct {
	Model       string  `env:"OLLAMA_MODEL"`
	BaseURL     string  `env:"OLLAMA_BASE_URL"    envDefault:"http://localhost:11434"`
	Timeout     int     `env:"OLLAMA_TIMEOUT"     envDefault:"120"`
	Temperature float64 `env:"OLLAMA_TEMPERATURE" envDefault:"0.7"`
}

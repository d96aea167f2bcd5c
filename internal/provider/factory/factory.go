// Package factory maps adapter names to constructor functions. Users add
// new providers by adding an entry; no runtime type introspection is
// involved.
package factory

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/provider/anthropic"
	"github.com/mcandiri/LLMForge/internal/provider/gemini"
	"github.com/mcandiri/LLMForge/internal/provider/ollama"
	"github.com/mcandiri/LLMForge/internal/provider/openai"
	"github.com/mcandiri/LLMForge/internal/resilience"
)

// Constructor builds a provider adapter from an HTTP client, its model
// configuration, a logger and an optional circuit breaker.
type Constructor func(*http.Client, domain.ModelConfig, *zap.Logger, *resilience.CircuitBreaker) (domain.Provider, error)

// Constructors is the table of known adapters.
//
//nolint:gochecknoglobals // The table is the extension point by design.
var Constructors = map[string]Constructor{
	openai.Name:    openai.NewWithBreaker,
	anthropic.Name: anthropic.NewWithBreaker,
	gemini.Name:    gemini.NewWithBreaker,
	ollama.Name:    ollama.NewWithBreaker,
}

// New constructs the named adapter without a circuit breaker.
func New(name string, httpClient *http.Client, cfg domain.ModelConfig, logger *zap.Logger) (domain.Provider, error) {
	return NewWithBreaker(name, httpClient, cfg, logger, nil)
}

// NewWithBreaker constructs the named adapter gated by the given breaker.
func NewWithBreaker(name string, httpClient *http.Client, cfg domain.ModelConfig, logger *zap.Logger, breaker *resilience.CircuitBreaker) (domain.Provider, error) {
	ctor, ok := Constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}

	return ctor(httpClient, cfg, logger, breaker)
}

// Names returns the registered adapter names.
func Names() []string {
	names := make([]string, 0, len(Constructors))
	for name := range Constructors {
		names = append(names, name)
	}

	return names
}

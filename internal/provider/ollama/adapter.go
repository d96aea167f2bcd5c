// Package ollama provides the adapter for a local Ollama runtime.
package ollama

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/provider"
	"github.com/mcandiri/LLMForge/internal/resilience"
)

// Name is the adapter's registry key.
const Name = "ollama"

// Provider implements domain.Provider for the Ollama /api/generate
// endpoint.
type Provider struct {
	*provider.Base
	httpClient *http.Client
	logger     *zap.Logger
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// New creates an Ollama provider.
func New(httpClient *http.Client, cfg domain.ModelConfig, logger *zap.Logger) (domain.Provider, error) {
	return NewWithBreaker(httpClient, cfg, logger, nil)
}

// NewWithBreaker creates an Ollama provider gated by the given circuit
// breaker.
func NewWithBreaker(httpClient *http.Client, cfg domain.ModelConfig, logger *zap.Logger, breaker *resilience.CircuitBreaker) (domain.Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	p := &Provider{
		httpClient: httpClient,
		logger:     logger,
	}
	p.Base = provider.NewBase(Name, cfg, breaker, p.sendRequest)

	return p, nil
}

// IsConfigured reports whether a model name is set; a local runtime needs
// no credentials.
func (p *Provider) IsConfigured() bool {
	return p.Config().Model != ""
}

func (p *Provider) sendRequest(ctx context.Context, prompt, systemPrompt string) (*provider.SendResult, error) {
	cfg := p.Config()

	body := generateRequest{
		Model:  cfg.Model,
		Prompt: prompt,
		System: systemPrompt,
		Stream: false,
	}

	var resp generateResponse
	if err := provider.PostJSON(ctx, p.httpClient, cfg.BaseURL+"/api/generate", nil, body, &resp); err != nil {
		return nil, err
	}

	return &provider.SendResult{
		Content:          resp.Response,
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
	}, nil
}

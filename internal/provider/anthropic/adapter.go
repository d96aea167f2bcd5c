// Package anthropic provides the Anthropic messages API adapter.
package anthropic

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/provider"
	"github.com/mcandiri/LLMForge/internal/resilience"
)

// Name is the adapter's registry key.
const Name = "anthropic"

const apiVersion = "2023-06-01"

// Provider implements domain.Provider for the Anthropic messages API.
type Provider struct {
	*provider.Base
	httpClient *http.Client
	logger     *zap.Logger
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Messages    []message `json:"messages"`
	System      string    `json:"system,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// New creates an Anthropic provider.
func New(httpClient *http.Client, cfg domain.ModelConfig, logger *zap.Logger) (domain.Provider, error) {
	return NewWithBreaker(httpClient, cfg, logger, nil)
}

// NewWithBreaker creates an Anthropic provider gated by the given circuit
// breaker.
func NewWithBreaker(httpClient *http.Client, cfg domain.ModelConfig, logger *zap.Logger, breaker *resilience.CircuitBreaker) (domain.Provider, error) {
	if cfg.Model == "" {
		return nil, errors.New("anthropic: model is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
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

// IsConfigured reports whether an API key is present.
func (p *Provider) IsConfigured() bool {
	return p.Config().APIKey != ""
}

func (p *Provider) sendRequest(ctx context.Context, prompt, systemPrompt string) (*provider.SendResult, error) {
	cfg := p.Config()

	body := messagesRequest{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Messages:    []message{{Role: "user", Content: prompt}},
		System:      systemPrompt,
		Temperature: cfg.Temperature,
	}

	headers := map[string]string{
		"x-api-key":         cfg.APIKey,
		"anthropic-version": apiVersion,
	}

	var resp messagesResponse
	if err := provider.PostJSON(ctx, p.httpClient, cfg.BaseURL+"/v1/messages", headers, body, &resp); err != nil {
		return nil, err
	}

	content := ""
	if len(resp.Content) > 0 {
		content = resp.Content[0].Text
	}

	return &provider.SendResult{
		Content:          content,
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
	}, nil
}

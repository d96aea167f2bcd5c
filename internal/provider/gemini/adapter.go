// Package gemini provides the Google Gemini generateContent adapter.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/provider"
	"github.com/mcandiri/LLMForge/internal/resilience"
)

// Name is the adapter's registry key.
const Name = "gemini"

// Provider implements domain.Provider for the Gemini REST API.
type Provider struct {
	*provider.Base
	httpClient *http.Client
	logger     *zap.Logger
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

// New creates a Gemini provider.
func New(httpClient *http.Client, cfg domain.ModelConfig, logger *zap.Logger) (domain.Provider, error) {
	return NewWithBreaker(httpClient, cfg, logger, nil)
}

// NewWithBreaker creates a Gemini provider gated by the given circuit
// breaker.
func NewWithBreaker(httpClient *http.Client, cfg domain.ModelConfig, logger *zap.Logger, breaker *resilience.CircuitBreaker) (domain.Provider, error) {
	if cfg.Model == "" {
		return nil, errors.New("gemini: model is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
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

	// The generateContent endpoint has no dedicated system field; the
	// system prompt is folded into the user turn.
	text := prompt
	if systemPrompt != "" {
		text = systemPrompt + "\n\n" + prompt
	}

	body := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: text}},
		}},
	}

	if cfg.MaxTokens > 0 || cfg.Temperature > 0 {
		body.GenerationConfig = &generationConfig{
			MaxOutputTokens: cfg.MaxTokens,
			Temperature:     cfg.Temperature,
		}
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		cfg.BaseURL, cfg.Model, url.QueryEscape(cfg.APIKey))

	var resp generateResponse
	if err := provider.PostJSON(ctx, p.httpClient, endpoint, nil, body, &resp); err != nil {
		return nil, err
	}

	text = ""
	if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
		text = resp.Candidates[0].Content.Parts[0].Text
	}

	return &provider.SendResult{
		Content:          text,
		PromptTokens:     resp.UsageMetadata.PromptTokenCount,
		CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
	}, nil
}

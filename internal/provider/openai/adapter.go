// Package openai provides the OpenAI adapter built on the official SDK.
// It translates SDK responses and errors into the uniform Reply contract;
// the shared Generate flow (circuit breaking, timeouts, classification)
// lives in the provider package.
package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/provider"
	"github.com/mcandiri/LLMForge/internal/resilience"
)

// Name is the adapter's registry key.
const Name = "openai"

// Provider implements domain.Provider for OpenAI chat completions.
type Provider struct {
	*provider.Base
	client openai.Client
	logger *zap.Logger
}

// New creates an OpenAI provider. The httpClient may be nil to use the
// SDK default.
func New(httpClient *http.Client, cfg domain.ModelConfig, logger *zap.Logger) (domain.Provider, error) {
	return NewWithBreaker(httpClient, cfg, logger, nil)
}

// NewWithBreaker creates an OpenAI provider gated by the given circuit
// breaker.
func NewWithBreaker(httpClient *http.Client, cfg domain.ModelConfig, logger *zap.Logger, breaker *resilience.CircuitBreaker) (domain.Provider, error) {
	if cfg.Model == "" {
		return nil, errors.New("openai: model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	// Retrying happens in the orchestrator's retry loop; the SDK must not
	// add its own layer underneath it.
	opts = append(opts, option.WithMaxRetries(0))

	p := &Provider{
		client: openai.NewClient(opts...),
		logger: logger,
	}
	p.Base = provider.NewBase(Name, cfg, breaker, p.sendRequest)

	return p, nil
}

// IsConfigured reports whether an API key is present.
func (p *Provider) IsConfigured() bool {
	return p.Config().APIKey != ""
}

// sendRequest issues one chat completion call via the SDK.
func (p *Provider) sendRequest(ctx context.Context, prompt, systemPrompt string) (*provider.SendResult, error) {
	cfg := p.Config()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(cfg.Model),
		Messages: messages,
	}

	if cfg.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(cfg.MaxTokens))
	}

	if cfg.Temperature > 0 {
		params.Temperature = openai.Float(cfg.Temperature)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classifySDKError(err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	return &provider.SendResult{
		Content:          content,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
	}, nil
}

// classifySDKError lifts SDK API errors into the shared ProviderError shape
// so the base wrapper can classify status codes and rate limits uniformly.
func classifySDKError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	var headers http.Header
	if apiErr.Response != nil {
		headers = apiErr.Response.Header
	}

	return provider.NewHTTPError(apiErr.StatusCode, apiErr.Error(), headers)
}

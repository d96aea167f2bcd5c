// Package provider contains the shared provider adapter machinery: the
// Generate flow with circuit breaking and fault classification, rate-limit
// header parsing, and the JSON POST helper used by the concrete adapters.
package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/observability"
	"github.com/mcandiri/LLMForge/internal/resilience"
)

// SendResult is the raw outcome of one remote call, before the base wrapper
// stamps provider identity, timing and success onto the Reply.
type SendResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// SendFunc issues the actual remote request. It is supplied by each concrete
// adapter and must honour ctx.
type SendFunc func(ctx context.Context, prompt, systemPrompt string) (*SendResult, error)

// Base implements the domain.Provider Generate flow around an adapter's
// SendFunc: empty-prompt rejection, circuit breaker gating, per-call
// timeout, fault classification and breaker bookkeeping.
type Base struct {
	name    string
	cfg     domain.ModelConfig
	breaker *resilience.CircuitBreaker
	send    SendFunc
}

// NewBase wires the shared Generate flow for a concrete adapter. The
// breaker may be nil, in which case calls are never gated. An empty
// cfg.ProviderName is derived from the adapter name.
func NewBase(name string, cfg domain.ModelConfig, breaker *resilience.CircuitBreaker, send SendFunc) *Base {
	if cfg.ProviderName == "" {
		cfg.ProviderName = strings.TrimSuffix(name, "Provider")
	}

	return &Base{
		name:    name,
		cfg:     cfg,
		breaker: breaker,
		send:    send,
	}
}

// Name returns the provider identifier.
func (b *Base) Name() string { return b.name }

// ModelID returns the configured model.
func (b *Base) ModelID() string { return b.cfg.Model }

// DisplayName returns "name/model".
func (b *Base) DisplayName() string { return b.name + "/" + b.cfg.Model }

// Config returns a copy of the adapter's model configuration.
func (b *Base) Config() domain.ModelConfig { return b.cfg }

// Breaker exposes the attached circuit breaker (nil when not gated).
func (b *Base) Breaker() *resilience.CircuitBreaker { return b.breaker }

// Generate runs the full provider call flow. Remote faults are encoded in
// the returned Reply; only an empty prompt is an error.
func (b *Base) Generate(ctx context.Context, prompt, systemPrompt string) (*domain.Reply, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, domain.ErrEmptyPrompt
	}

	ctx = observability.WithProvider(ctx, b.name)
	ctx = observability.WithModel(ctx, b.cfg.Model)
	logger := observability.FromContext(ctx)

	if b.breaker != nil && !b.breaker.Allow() {
		logger.Warn("circuit breaker rejected call")

		// The breaker already recorded the failures that opened it; a
		// refused call must not charge it again.
		return b.failure(domain.MsgCircuitOpen, 0, nil), nil
	}

	callCtx := ctx
	if b.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, time.Duration(b.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	start := time.Now()
	result, err := b.send(callCtx, prompt, systemPrompt)
	elapsed := time.Since(start)

	if err == nil {
		if b.breaker != nil {
			b.breaker.RecordSuccess()
		}

		logger.Debug("provider call succeeded",
			zap.Duration("duration", elapsed),
			zap.Int("completion_tokens", result.CompletionTokens))

		return &domain.Reply{
			ProviderName:     b.cfg.ProviderName,
			ModelID:          b.cfg.Model,
			Content:          result.Content,
			PromptTokens:     result.PromptTokens,
			CompletionTokens: result.CompletionTokens,
			TotalTokens:      result.PromptTokens + result.CompletionTokens,
			Duration:         elapsed,
			Success:          true,
		}, nil
	}

	if isCancellation(callCtx, err) {
		// Client-side cancellation must not poison the breaker.
		logger.Warn("provider call cancelled or timed out", zap.Duration("duration", elapsed))

		return b.failure(domain.MsgCancelledOrTimeout, elapsed, nil), nil
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		if b.breaker != nil {
			b.breaker.RecordFailure()
		}

		logger.Error("provider call failed",
			zap.Int("status", provErr.StatusCode),
			zap.Bool("retryable", provErr.Retryable()),
			zap.Error(err))

		reply := b.failure(provErr.Error(), elapsed, provErr.RateLimit)
		reply.HTTPStatus = provErr.StatusCode
		reply.RateLimited = provErr.RateLimited()

		return reply, nil
	}

	if b.breaker != nil {
		b.breaker.RecordFailure()
	}

	logger.Error("provider call failed", zap.Error(err))

	return b.failure(err.Error(), elapsed, nil), nil
}

// failure builds an immutable failed Reply stamped with provider identity.
func (b *Base) failure(message string, elapsed time.Duration, rl *domain.RateLimitInfo) *domain.Reply {
	return &domain.Reply{
		ProviderName: b.cfg.ProviderName,
		ModelID:      b.cfg.Model,
		Duration:     elapsed,
		Success:      false,
		Error:        message,
		RateLimit:    rl,
	}
}

// isCancellation reports whether err stems from the caller's context or the
// per-call deadline rather than the remote side.
func isCancellation(ctx context.Context, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return ctx.Err() != nil
}

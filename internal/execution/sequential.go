package execution

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/observability"
)

// SequentialStrategy invokes providers in order and stops at the first
// success. Every attempted provider contributes to the result.
type SequentialStrategy struct{}

// NewSequential creates a sequential execution strategy.
func NewSequential() *SequentialStrategy {
	return &SequentialStrategy{}
}

// Name returns the strategy identifier.
func (s *SequentialStrategy) Name() string { return "Sequential" }

// Execute tries each provider in turn until one succeeds.
func (s *SequentialStrategy) Execute(ctx context.Context, providers []domain.Provider, prompt, systemPrompt string) (*Result, error) {
	if len(providers) == 0 {
		return nil, domain.ErrNoProviders
	}

	logger := observability.FromContext(ctx)

	start := time.Now()
	result := NewResult()

	for _, p := range providers {
		if ctx.Err() != nil {
			break
		}

		reply := generate(ctx, p, prompt, systemPrompt)
		result.Add(reply)

		if reply.Success {
			logger.Debug("sequential run stopped on success", zap.String("winner", p.Name()))
			break
		}
	}

	result.Duration = time.Since(start)

	return result, nil
}

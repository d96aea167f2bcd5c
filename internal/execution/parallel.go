package execution

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/observability"
)

// ParallelStrategy launches every provider concurrently and waits for all
// of them. A failure on one provider does not cancel the others; only the
// caller's context does.
type ParallelStrategy struct{}

// NewParallel creates a parallel execution strategy.
func NewParallel() *ParallelStrategy {
	return &ParallelStrategy{}
}

// Name returns the strategy identifier.
func (s *ParallelStrategy) Name() string { return "Parallel" }

// Execute fans the prompt out to all providers and collects every reply.
func (s *ParallelStrategy) Execute(ctx context.Context, providers []domain.Provider, prompt, systemPrompt string) (*Result, error) {
	if len(providers) == 0 {
		return nil, domain.ErrNoProviders
	}

	logger := observability.FromContext(ctx)
	logger.Debug("dispatching providers in parallel", zap.Int("providers", len(providers)))

	start := time.Now()
	replies := make([]*domain.Reply, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)

		go func(i int, p domain.Provider) {
			defer wg.Done()
			replies[i] = generate(ctx, p, prompt, systemPrompt)
		}(i, p)
	}
	wg.Wait()

	result := NewResult()
	for _, reply := range replies {
		result.Add(reply)
	}
	result.Duration = time.Since(start)

	return result, nil
}

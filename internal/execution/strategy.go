package execution

import (
	"context"

	"github.com/mcandiri/LLMForge/internal/domain"
)

// Strategy coordinates how a set of providers is invoked for one prompt.
type Strategy interface {
	// Name returns the strategy identifier.
	Name() string

	// Execute invokes the providers and collects their replies. An empty
	// provider list is an argument error.
	Execute(ctx context.Context, providers []domain.Provider, prompt, systemPrompt string) (*Result, error)
}

// generate calls one provider and folds the boundary error, if any, into a
// failed reply so strategy bookkeeping stays uniform.
func generate(ctx context.Context, p domain.Provider, prompt, systemPrompt string) *domain.Reply {
	reply, err := p.Generate(ctx, prompt, systemPrompt)
	if err != nil {
		return &domain.Reply{
			ProviderName: p.Name(),
			ModelID:      p.ModelID(),
			Success:      false,
			Error:        err.Error(),
		}
	}

	return reply
}

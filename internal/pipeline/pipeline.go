package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mcandiri/LLMForge/internal/consensus"
	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/execution"
	"github.com/mcandiri/LLMForge/internal/observability"
)

// Pipeline assembles one orchestration pass from its inputs. Build it
// fluently, then call RunOnce per attempt; every call materialises a fresh
// pass context.
type Pipeline struct {
	prompt       string
	systemPrompt string
	providers    []domain.Provider
	validators   []domain.Validator
	scorer       domain.Scorer
	consensus    domain.ConsensusStrategy
	execution    execution.Strategy
	enrichment   *EnrichmentStep
}

// New creates a pipeline for the given prompt.
func New(prompt string) *Pipeline {
	return &Pipeline{prompt: prompt}
}

// WithProviders sets the provider set.
func (p *Pipeline) WithProviders(providers ...domain.Provider) *Pipeline {
	p.providers = providers
	return p
}

// WithSystemPrompt sets the system prompt.
func (p *Pipeline) WithSystemPrompt(systemPrompt string) *Pipeline {
	p.systemPrompt = systemPrompt
	return p
}

// WithValidators attaches validators.
func (p *Pipeline) WithValidators(validators ...domain.Validator) *Pipeline {
	p.validators = validators
	return p
}

// WithScorer sets the scorer.
func (p *Pipeline) WithScorer(scorer domain.Scorer) *Pipeline {
	p.scorer = scorer
	return p
}

// WithConsensus sets the consensus strategy.
func (p *Pipeline) WithConsensus(strategy domain.ConsensusStrategy) *Pipeline {
	p.consensus = strategy
	return p
}

// WithExecution sets the execution strategy.
func (p *Pipeline) WithExecution(strategy execution.Strategy) *Pipeline {
	p.execution = strategy
	return p
}

// WithEnrichment prepends and appends fixed text around the prompt.
func (p *Pipeline) WithEnrichment(prefix, suffix string) *Pipeline {
	p.enrichment = &EnrichmentStep{Prefix: prefix, Suffix: suffix}
	return p
}

// Validate checks the pipeline's arguments before any pass runs.
func (p *Pipeline) Validate() error {
	if strings.TrimSpace(p.prompt) == "" {
		return domain.ErrEmptyPrompt
	}

	if len(p.providers) == 0 {
		return domain.ErrNoProviders
	}

	return nil
}

// RunOnce executes a single pass. Runtime failures are recorded on the
// returned context; the error return is reserved for argument errors.
func (p *Pipeline) RunOnce(ctx context.Context) (*Context, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	pass := &Context{
		Prompt:       p.prompt,
		SystemPrompt: p.systemPrompt,
		Providers:    p.providers,
		Validators:   p.validators,
		Scorer:       p.scorer,
		Consensus:    p.consensus,
		Execution:    p.execution,
	}

	if pass.Execution == nil {
		pass.Execution = execution.NewParallel()
	}

	if pass.Consensus == nil {
		pass.Consensus = consensus.NewHighestScore()
	}

	logger := observability.FromContext(ctx)

	for _, step := range p.steps() {
		if err := step.Run(ctx, pass); err != nil {
			pass.Err = err
			pass.AddEvent(step.Name(), err.Error())
			logger.Warn("pipeline step failed", zap.String("step", step.Name()), zap.Error(err))

			break
		}
	}

	return pass, nil
}

// steps returns the fixed-order step list for one pass.
func (p *Pipeline) steps() []Step {
	steps := make([]Step, 0, 5)
	if p.enrichment != nil || p.systemPrompt != "" {
		enrich := p.enrichment
		if enrich == nil {
			enrich = &EnrichmentStep{}
		}
		enrich.SystemPrompt = p.systemPrompt
		steps = append(steps, enrich)
	}

	return append(steps,
		&ExecutionStep{},
		&ValidationStep{},
		&ScoringStep{},
		&ConsensusStep{},
	)
}

// Package orchestrator is the facade over the whole engine: it resolves
// providers, assembles the pipeline, wraps it in the retry loop and feeds
// the performance tracker.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/observability"
	"github.com/mcandiri/LLMForge/internal/pipeline"
	"github.com/mcandiri/LLMForge/internal/prompt"
	"github.com/mcandiri/LLMForge/internal/provider/registry"
	"github.com/mcandiri/LLMForge/internal/resilience"
	"github.com/mcandiri/LLMForge/internal/tracking"
)

// Orchestrator fans a prompt out to providers and selects the best reply.
type Orchestrator struct {
	registry    *registry.Registry
	tracker     *tracking.PerformanceTracker
	library     *prompt.Library
	retryPolicy resilience.RetryPolicy
	maxAttempts int
	events      observability.EventPublisher
}

// New creates an orchestrator. The retry policy may be nil to disable
// inter-attempt retries; maxAttempts below 1 is clamped to 1.
func New(reg *registry.Registry, tracker *tracking.PerformanceTracker, library *prompt.Library, retryPolicy resilience.RetryPolicy, maxAttempts int) *Orchestrator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &Orchestrator{
		registry:    reg,
		tracker:     tracker,
		library:     library,
		retryPolicy: retryPolicy,
		maxAttempts: maxAttempts,
	}
}

// WithEvents attaches a publisher notified when an orchestration finishes.
func (o *Orchestrator) WithEvents(publisher observability.EventPublisher) *Orchestrator {
	o.events = publisher

	return o
}

// Orchestrate runs the full pipeline for one prompt with inline overrides.
// Argument errors are returned synchronously; everything else is reported
// inside the result.
func (o *Orchestrator) Orchestrate(ctx context.Context, promptText string, opts *Options) (*domain.OrchestrationResult, error) {
	opts = opts.normalized()

	scorer, err := opts.scorer()
	if err != nil {
		return nil, err
	}

	execStrategy, err := opts.executionStrategy()
	if err != nil {
		return nil, err
	}

	consensusStrategy, err := opts.consensusStrategy()
	if err != nil {
		return nil, err
	}

	providers := o.resolveProviders(opts)
	if len(providers) == 0 {
		return &domain.OrchestrationResult{
			Success:       false,
			FailureReason: domain.MsgNoProviders,
		}, nil
	}

	ctx = observability.WithRequestID(ctx, observability.GenerateRequestID())
	ctx = observability.WithStrategy(ctx, opts.Strategy)
	logger := observability.FromContext(ctx)

	pipe := pipeline.New(promptText).
		WithProviders(providers...).
		WithSystemPrompt(opts.SystemPrompt).
		WithValidators(opts.Validators...).
		WithScorer(scorer).
		WithConsensus(consensusStrategy).
		WithExecution(execStrategy)

	start := time.Now()
	events := make([]domain.PipelineEvent, 0)

	var pass *pipeline.Context
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		attemptCtx := observability.WithAttempt(ctx, attempt)

		pass, err = pipe.RunOnce(attemptCtx)
		if err != nil {
			return nil, err
		}

		events = append(events, pass.Events...)

		if pass.Succeeded() {
			result := o.successResult(pass, events, time.Since(start))
			o.updateTracker(pass, result)
			o.publish(attemptCtx, result)

			return result, nil
		}

		logger.Warn("orchestration attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(pass.Err))

		if attempt == o.maxAttempts || !o.waitForRetry(ctx, attempt, pass) {
			break
		}
	}

	result := o.failureResult(pass, events, time.Since(start))
	o.publish(ctx, result)

	return result, nil
}

// publish emits a completion event when a publisher is attached.
func (o *Orchestrator) publish(ctx context.Context, result *domain.OrchestrationResult) {
	if o.events == nil {
		return
	}

	o.events.Publish(ctx, "orchestration_completed", map[string]interface{}{
		"success":           result.Success,
		"best_provider":     result.BestProvider,
		"best_score":        result.BestScore,
		"consensus_reached": result.ConsensusReached,
		"total_models":      result.TotalModels,
		"execution_ms":      result.ExecutionTime.Milliseconds(),
	})
}

// OrchestrateFromTemplate renders a registered template and orchestrates
// the result.
func (o *Orchestrator) OrchestrateFromTemplate(ctx context.Context, name string, vars map[string]string, opts *Options) (*domain.OrchestrationResult, error) {
	if o.library == nil {
		return nil, fmt.Errorf("no template library configured")
	}

	tpl, ok := o.library.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown template: %s", name)
	}

	rendered := tpl.Render(vars)

	opts = opts.normalized()
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = rendered.SystemPrompt
	}

	return o.Orchestrate(ctx, rendered.UserPrompt, opts)
}

// Tracker exposes the performance tracker for analytics reads.
func (o *Orchestrator) Tracker() *tracking.PerformanceTracker {
	return o.tracker
}

// resolveProviders picks the fallback name list for the fallback strategy
// and the configured subset otherwise.
func (o *Orchestrator) resolveProviders(opts *Options) []domain.Provider {
	if opts.Strategy == StrategyFallback && len(opts.FallbackOrder) > 0 {
		return o.registry.ByNames(opts.FallbackOrder...)
	}

	return o.registry.Configured()
}

// waitForRetry consults the retry policy and sleeps. Returns false when no
// further attempt should happen.
func (o *Orchestrator) waitForRetry(ctx context.Context, attempt int, pass *pipeline.Context) bool {
	if o.retryPolicy == nil {
		return false
	}

	delay, ok := o.retryPolicy.NextDelay(attempt, lastFailure(pass))
	if !ok {
		return false
	}

	select {
	case <-time.After(delay):
		return true
	case <-ctx.Done():
		return false
	}
}

// lastFailure returns the most recent failed reply of the pass, carrying
// any rate-limit hint for the retry policy.
func lastFailure(pass *pipeline.Context) *domain.Reply {
	if pass == nil || pass.ExecutionResult == nil {
		return nil
	}

	failed := pass.ExecutionResult.Failed()
	if len(failed) == 0 {
		return nil
	}

	for _, reply := range failed {
		if reply.RateLimit != nil {
			return reply
		}
	}

	return failed[len(failed)-1]
}

func (o *Orchestrator) successResult(pass *pipeline.Context, events []domain.PipelineEvent, elapsed time.Duration) *domain.OrchestrationResult {
	outcome := pass.Outcome

	return &domain.OrchestrationResult{
		Success:             true,
		BestContent:         outcome.BestContent,
		BestProvider:        outcome.BestProvider,
		BestScore:           outcome.BestScore,
		ConsensusReached:    outcome.ConsensusReached,
		ConsensusConfidence: outcome.Confidence,
		AgreementCount:      outcome.AgreementCount,
		TotalModels:         outcome.TotalModels,
		DissentingProviders: outcome.DissentingProviders,
		AllScored:           outcome.AllScored,
		ExecutionTime:       elapsed,
		Failures:            collectFailures(pass),
		PipelineEvents:      events,
	}
}

func (o *Orchestrator) failureResult(pass *pipeline.Context, events []domain.PipelineEvent, elapsed time.Duration) *domain.OrchestrationResult {
	reason := domain.MsgAllProvidersFailed
	if pass != nil && pass.Err != nil {
		reason = pass.Err.Error()
	}

	return &domain.OrchestrationResult{
		Success:        false,
		FailureReason:  reason,
		ExecutionTime:  elapsed,
		Failures:       collectFailures(pass),
		PipelineEvents: events,
	}
}

// updateTracker records one success per scored reply (flagging the winner)
// and one failure per failed execution reply.
func (o *Orchestrator) updateTracker(pass *pipeline.Context, result *domain.OrchestrationResult) {
	if o.tracker == nil {
		return
	}

	for _, scored := range pass.Scored {
		won := scored.ProviderName == result.BestProvider
		o.tracker.RecordSuccess(scored.ProviderName, scored.ResponseTime, scored.Score, scored.TotalTokens, won)
	}

	for _, failed := range pass.ExecutionResult.Failed() {
		o.tracker.RecordFailure(failed.ProviderName)
	}
}

func collectFailures(pass *pipeline.Context) []domain.ProviderFailure {
	if pass == nil || pass.ExecutionResult == nil {
		return nil
	}

	failed := pass.ExecutionResult.Failed()
	if len(failed) == 0 {
		return nil
	}

	failures := make([]domain.ProviderFailure, 0, len(failed))
	for _, reply := range failed {
		failures = append(failures, domain.ProviderFailure{
			Provider: reply.ProviderName,
			Error:    reply.Error,
		})
	}

	return failures
}

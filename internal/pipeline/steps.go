package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/observability"
	"github.com/mcandiri/LLMForge/internal/scoring"
)

// Step is one stage of a pipeline pass.
type Step interface {
	// Name identifies the step in events.
	Name() string

	// Run mutates the pass context. A returned error is terminal for the
	// pass.
	Run(ctx context.Context, pass *Context) error
}

// EnrichmentStep optionally sets the system prompt and wraps the user
// prompt with a fixed prefix and suffix, each joined by a blank line.
type EnrichmentStep struct {
	SystemPrompt string
	Prefix       string
	Suffix       string
}

// Name identifies the step in events.
func (s *EnrichmentStep) Name() string { return "PromptEnrichment" }

// Run applies the enrichment to the pass context.
func (s *EnrichmentStep) Run(_ context.Context, pass *Context) error {
	if s.SystemPrompt != "" {
		pass.SystemPrompt = s.SystemPrompt
	}

	parts := make([]string, 0, 3)
	if s.Prefix != "" {
		parts = append(parts, s.Prefix)
	}
	parts = append(parts, pass.Prompt)
	if s.Suffix != "" {
		parts = append(parts, s.Suffix)
	}
	pass.Prompt = strings.Join(parts, "\n\n")

	pass.AddEvent(s.Name(), "prompt enriched")

	return nil
}

// ExecutionStep runs the configured execution strategy.
type ExecutionStep struct{}

// Name identifies the step in events.
func (s *ExecutionStep) Name() string { return "Execution" }

// Run invokes the providers and fails the pass when none succeeds.
func (s *ExecutionStep) Run(ctx context.Context, pass *Context) error {
	result, err := pass.Execution.Execute(ctx, pass.Providers, pass.Prompt, pass.SystemPrompt)
	if err != nil {
		return err
	}

	pass.ExecutionResult = result

	successes := len(result.Successful())
	pass.AddEvent(s.Name(), fmt.Sprintf("%d of %d providers succeeded", successes, result.Len()))

	if successes == 0 {
		return errors.New(domain.MsgAllProvidersFailed)
	}

	return nil
}

// ValidationStep runs every validator over every successful reply. It
// records outcomes but never fails the pass by itself.
type ValidationStep struct{}

// Name identifies the step in events.
func (s *ValidationStep) Name() string { return "Validation" }

// Run records per-provider validation outcomes.
func (s *ValidationStep) Run(ctx context.Context, pass *Context) error {
	if len(pass.Validators) == 0 {
		pass.AddEvent(s.Name(), "no validators attached")
		return nil
	}

	logger := observability.FromContext(ctx)

	pass.Validations = make(map[string][]domain.ValidationOutcome)
	failures := 0
	for _, reply := range pass.ExecutionResult.Successful() {
		outcomes := make([]domain.ValidationOutcome, 0, len(pass.Validators))
		for _, v := range pass.Validators {
			outcome := v.Validate(ctx, reply.Content)
			if !outcome.Valid {
				failures++
				logger.Debug("validator rejected reply",
					zap.String("provider", reply.ProviderName),
					zap.String("validator", v.Name()),
					zap.String("reason", outcome.ErrorMessage))
			}
			outcomes = append(outcomes, outcome)
		}
		pass.Validations[reply.ProviderName] = outcomes
	}

	pass.AddEvent(s.Name(), fmt.Sprintf("%d validation failures", failures))

	return nil
}

// ScoringStep scores every successful reply. Without a scorer each reply
// scores 1.0. A Weighted scorer additionally yields the breakdown.
type ScoringStep struct{}

// Name identifies the step in events.
func (s *ScoringStep) Name() string { return "Scoring" }

// Run appends a ScoredReply per successful reply, in provider-list order.
func (s *ScoringStep) Run(ctx context.Context, pass *Context) error {
	successful := pass.ExecutionResult.Successful()
	all := pass.ExecutionResult.All()

	for _, reply := range successful {
		score := 1.0
		var breakdown map[string]float64

		switch scorer := pass.Scorer.(type) {
		case nil:
		case *scoring.WeightedScorer:
			score, breakdown = scorer.ScoreDetailed(ctx, reply, all)
		default:
			score = scorer.Score(ctx, reply, all)
		}

		pass.Scored = append(pass.Scored, domain.ScoredReply{
			ProviderName: reply.ProviderName,
			Content:      reply.Content,
			Score:        score,
			Breakdown:    breakdown,
			ResponseTime: reply.Duration,
			TotalTokens:  reply.TotalTokens,
		})
	}

	pass.AddEvent(s.Name(), fmt.Sprintf("%d replies scored", len(pass.Scored)))

	return nil
}

// ConsensusStep runs the consensus strategy over the scored replies.
type ConsensusStep struct{}

// Name identifies the step in events.
func (s *ConsensusStep) Name() string { return "Consensus" }

// Run decides the winner.
func (s *ConsensusStep) Run(ctx context.Context, pass *Context) error {
	outcome := pass.Consensus.Decide(ctx, pass.Scored)
	pass.Outcome = &outcome

	pass.AddEvent(s.Name(), fmt.Sprintf("consensus reached: %t, best: %s", outcome.ConsensusReached, outcome.BestProvider))

	return nil
}

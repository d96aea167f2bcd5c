// Package pipeline composes one orchestration pass out of five fixed-order
// steps: enrich, execute, validate, score, consensus. Each step mutates the
// pass context and appends an event; a terminal error short-circuits the
// remaining steps.
package pipeline

import (
	"time"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/execution"
)

// Context is the mutable state of a single pipeline pass. It is owned by
// exactly one pass and never shared.
type Context struct {
	Prompt       string
	SystemPrompt string
	Providers    []domain.Provider
	Validators   []domain.Validator
	Scorer       domain.Scorer
	Consensus    domain.ConsensusStrategy
	Execution    execution.Strategy

	ExecutionResult *execution.Result
	Validations     map[string][]domain.ValidationOutcome
	Scored          []domain.ScoredReply
	Outcome         *domain.ConsensusOutcome
	Events          []domain.PipelineEvent

	// Err marks the pass as terminally failed; later steps are skipped.
	Err error
}

// AddEvent appends a step event to the pass log.
func (c *Context) AddEvent(step, message string) {
	c.Events = append(c.Events, domain.PipelineEvent{
		Step:      step,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// Succeeded reports whether the pass produced a consensus outcome without
// a terminal error.
func (c *Context) Succeeded() bool {
	return c.Err == nil && c.Outcome != nil
}

package orchestrator

import (
	"fmt"
	"strings"

	"github.com/mcandiri/LLMForge/internal/consensus"
	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/execution"
	"github.com/mcandiri/LLMForge/internal/scoring"
)

// Execution strategy names accepted in Options.Strategy.
const (
	StrategyParallel   = "parallel"
	StrategySequential = "sequential"
	StrategyFallback   = "fallback"
)

// Consensus strategy names accepted in Options.Consensus.
const (
	ConsensusHighestScore = "highestscore"
	ConsensusMajorityVote = "majorityvote"
	ConsensusQuorum       = "quorum"
)

const defaultSimilarityThreshold = 0.6

// Options are the inline overrides for a single orchestration.
type Options struct {
	// Strategy selects the execution strategy; defaults to parallel.
	Strategy string

	// Consensus selects the consensus strategy; defaults to highest score.
	Consensus string

	// FallbackOrder names the providers for the fallback chain.
	FallbackOrder []string

	// FallbackTriggers controls chain advancement; defaults to TriggerAll.
	FallbackTriggers execution.FallbackTrigger

	// QuorumRequired is the number of agreeing replies for quorum
	// consensus.
	QuorumRequired int

	// SimilarityThreshold tunes majority-vote and quorum clustering.
	SimilarityThreshold float64

	// SystemPrompt is passed to every provider.
	SystemPrompt string

	// Weights maps built-in scorer names to their weights. Empty means
	// equal weights over ResponseTime, Consensus and TokenEfficiency.
	Weights map[string]float64

	// Validators run over every successful reply.
	Validators []domain.Validator
}

func (o *Options) normalized() *Options {
	if o == nil {
		o = &Options{}
	}

	if o.Strategy == "" {
		o.Strategy = StrategyParallel
	}
	o.Strategy = strings.ToLower(o.Strategy)

	if o.Consensus == "" {
		o.Consensus = ConsensusHighestScore
	}
	o.Consensus = strings.ToLower(o.Consensus)

	if o.FallbackTriggers == execution.TriggerNone {
		o.FallbackTriggers = execution.TriggerAll
	}

	if o.SimilarityThreshold <= 0 {
		o.SimilarityThreshold = defaultSimilarityThreshold
	}

	return o
}

// executionStrategy materialises the configured execution strategy.
func (o *Options) executionStrategy() (execution.Strategy, error) {
	switch o.Strategy {
	case StrategyParallel:
		return execution.NewParallel(), nil
	case StrategySequential:
		return execution.NewSequential(), nil
	case StrategyFallback:
		return execution.NewFallback(o.FallbackTriggers).WithValidators(o.Validators...), nil
	default:
		return nil, fmt.Errorf("unknown execution strategy: %s", o.Strategy)
	}
}

// consensusStrategy materialises the configured consensus strategy.
func (o *Options) consensusStrategy() (domain.ConsensusStrategy, error) {
	switch o.Consensus {
	case ConsensusHighestScore:
		return consensus.NewHighestScore(), nil
	case ConsensusMajorityVote:
		return consensus.NewMajorityVote(o.SimilarityThreshold), nil
	case ConsensusQuorum:
		return consensus.NewQuorum(o.QuorumRequired, o.SimilarityThreshold)
	default:
		return nil, fmt.Errorf("unknown consensus strategy: %s", o.Consensus)
	}
}

// scorer builds the weighted scorer from the weight map over the known
// scorer names.
func (o *Options) scorer() (domain.Scorer, error) {
	weights := o.Weights
	if len(weights) == 0 {
		weights = map[string]float64{
			scoring.NameResponseTime:    1,
			scoring.NameConsensus:       1,
			scoring.NameTokenEfficiency: 1,
		}
	}

	pairs := make([]scoring.WeightedPair, 0, len(weights))
	for name, weight := range weights {
		var scorer domain.Scorer
		switch name {
		case scoring.NameResponseTime:
			scorer = scoring.NewResponseTime()
		case scoring.NameConsensus:
			scorer = scoring.NewConsensus()
		case scoring.NameTokenEfficiency:
			scorer = scoring.NewTokenEfficiency()
		case scoring.NameValidationPass:
			scorer = scoring.NewValidationPass(o.Validators...)
		default:
			return nil, fmt.Errorf("unknown scorer name: %s", name)
		}

		pairs = append(pairs, scoring.WeightedPair{Scorer: scorer, Weight: weight})
	}

	return scoring.NewWeighted(pairs...)
}

package scoring

import (
	"context"
	"fmt"

	"github.com/mcandiri/LLMForge/internal/domain"
)

// WeightedPair couples a scorer with its non-negative weight.
type WeightedPair struct {
	Scorer domain.Scorer
	Weight float64
}

// WeightedScorer composes scorers as a weighted average. With a zero total
// weight every reply scores 0.
type WeightedScorer struct {
	pairs []WeightedPair
}

// NewWeighted creates a composite scorer. Negative weights are rejected.
func NewWeighted(pairs ...WeightedPair) (*WeightedScorer, error) {
	for _, p := range pairs {
		if p.Scorer == nil {
			return nil, fmt.Errorf("weighted scorer requires a scorer per pair")
		}

		if p.Weight < 0 {
			return nil, fmt.Errorf("negative weight %v for scorer %s", p.Weight, p.Scorer.Name())
		}
	}

	return &WeightedScorer{pairs: pairs}, nil
}

// Name returns the scorer's registered key.
func (s *WeightedScorer) Name() string { return NameWeighted }

// Score returns the weighted average of the component scores.
func (s *WeightedScorer) Score(ctx context.Context, reply *domain.Reply, all []*domain.Reply) float64 {
	score, _ := s.ScoreDetailed(ctx, reply, all)

	return score
}

// ScoreDetailed returns the composite score together with the per-scorer
// breakdown.
func (s *WeightedScorer) ScoreDetailed(ctx context.Context, reply *domain.Reply, all []*domain.Reply) (float64, map[string]float64) {
	breakdown := make(map[string]float64, len(s.pairs))

	var weightedSum, totalWeight float64
	for _, p := range s.pairs {
		component := p.Scorer.Score(ctx, reply, all)
		breakdown[p.Scorer.Name()] = component

		weightedSum += component * p.Weight
		totalWeight += p.Weight
	}

	if totalWeight <= 0 {
		return 0.0, breakdown
	}

	return weightedSum / totalWeight, breakdown
}

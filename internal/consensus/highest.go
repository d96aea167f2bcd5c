// Package consensus contains the strategies that rank scored replies and
// pick a single winner.
package consensus

import (
	"context"
	"sort"

	"github.com/mcandiri/LLMForge/internal/domain"
)

// HighestScoreStrategy picks the top-scored reply. Consensus is always
// reached; confidence reflects the winner's margin over the runner-up.
type HighestScoreStrategy struct{}

// NewHighestScore creates a highest-score strategy.
func NewHighestScore() *HighestScoreStrategy {
	return &HighestScoreStrategy{}
}

// Name returns the strategy identifier.
func (s *HighestScoreStrategy) Name() string { return "HighestScore" }

// Decide ranks the replies by descending score, keeping insertion order on
// ties, and crowns the head.
func (s *HighestScoreStrategy) Decide(_ context.Context, scored []domain.ScoredReply) domain.ConsensusOutcome {
	if len(scored) == 0 {
		return emptyOutcome()
	}

	ranked := make([]domain.ScoredReply, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	winner := ranked[0]

	confidence := 1.0
	if len(ranked) > 1 {
		confidence = 0.5 + (winner.Score - ranked[1].Score)
		if confidence > 1.0 {
			confidence = 1.0
		}
	}

	dissenting := make([]string, 0, len(ranked)-1)
	for _, r := range ranked[1:] {
		dissenting = append(dissenting, r.ProviderName)
	}

	return domain.ConsensusOutcome{
		ConsensusReached:    true,
		BestContent:         winner.Content,
		BestProvider:        winner.ProviderName,
		BestScore:           winner.Score,
		Confidence:          confidence,
		AgreementCount:      1,
		TotalModels:         len(scored),
		DissentingProviders: dissenting,
		AllScored:           scored,
	}
}

func emptyOutcome() domain.ConsensusOutcome {
	return domain.ConsensusOutcome{
		ConsensusReached: false,
		Confidence:       0,
		AllScored:        []domain.ScoredReply{},
	}
}

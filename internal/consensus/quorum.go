package consensus

import (
	"context"
	"errors"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/scoring"
)

// QuorumStrategy requires a minimum number of agreeing replies. Each
// candidate's agreement set counts every reply (itself included) whose
// similarity to it meets the threshold.
type QuorumStrategy struct {
	required  int
	threshold float64
}

// NewQuorum creates a quorum strategy. required must be at least 1.
func NewQuorum(required int, threshold float64) (*QuorumStrategy, error) {
	if required < 1 {
		return nil, errors.New("quorum requires at least one agreeing reply")
	}

	return &QuorumStrategy{required: required, threshold: threshold}, nil
}

// Name returns the strategy identifier.
func (s *QuorumStrategy) Name() string { return "Quorum" }

// Decide picks the candidate with the largest agreement set, breaking ties
// by original order.
func (s *QuorumStrategy) Decide(_ context.Context, scored []domain.ScoredReply) domain.ConsensusOutcome {
	if len(scored) == 0 {
		return emptyOutcome()
	}

	best := 0
	bestAgreement := agreementSet(scored, 0, s.threshold)
	for i := 1; i < len(scored); i++ {
		if agreement := agreementSet(scored, i, s.threshold); len(agreement) > len(bestAgreement) {
			best = i
			bestAgreement = agreement
		}
	}

	inAgreement := make(map[int]struct{}, len(bestAgreement))
	for _, idx := range bestAgreement {
		inAgreement[idx] = struct{}{}
	}

	dissenting := make([]string, 0, len(scored)-len(bestAgreement))
	for i, r := range scored {
		if _, ok := inAgreement[i]; !ok {
			dissenting = append(dissenting, r.ProviderName)
		}
	}

	return domain.ConsensusOutcome{
		ConsensusReached:    len(bestAgreement) >= s.required,
		BestContent:         scored[best].Content,
		BestProvider:        scored[best].ProviderName,
		BestScore:           scored[best].Score,
		Confidence:          float64(len(bestAgreement)) / float64(len(scored)),
		AgreementCount:      len(bestAgreement),
		TotalModels:         len(scored),
		DissentingProviders: dissenting,
		AllScored:           scored,
	}
}

func agreementSet(scored []domain.ScoredReply, candidate int, threshold float64) []int {
	agreement := make([]int, 0, len(scored))
	for i, r := range scored {
		if i == candidate || scoring.Jaccard(scored[candidate].Content, r.Content) >= threshold {
			agreement = append(agreement, i)
		}
	}

	return agreement
}

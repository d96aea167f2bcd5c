package consensus

import (
	"context"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/scoring"
)

// MajorityVoteStrategy clusters replies by surface token overlap and
// requires the largest cluster to hold an absolute majority. Voting uses
// plain Jaccard similarity, not the TF-IDF metric the consensus scorer
// uses: agreement here means textual overlap.
type MajorityVoteStrategy struct {
	threshold float64
}

// NewMajorityVote creates a majority-vote strategy with the given Jaccard
// threshold.
func NewMajorityVote(threshold float64) *MajorityVoteStrategy {
	return &MajorityVoteStrategy{threshold: threshold}
}

// Name returns the strategy identifier.
func (s *MajorityVoteStrategy) Name() string { return "MajorityVote" }

// Decide greedily clusters the replies and judges the largest cluster.
func (s *MajorityVoteStrategy) Decide(_ context.Context, scored []domain.ScoredReply) domain.ConsensusOutcome {
	if len(scored) == 0 {
		return emptyOutcome()
	}

	clusters := s.cluster(scored)

	largest := clusters[0]
	for _, c := range clusters[1:] {
		if len(c) > len(largest) {
			largest = c
		}
	}

	// Highest-scored member wins; earlier insertion breaks ties.
	winner := largest[0]
	for _, idx := range largest[1:] {
		if scored[idx].Score > scored[winner].Score {
			winner = idx
		}
	}

	inLargest := make(map[int]struct{}, len(largest))
	for _, idx := range largest {
		inLargest[idx] = struct{}{}
	}

	dissenting := make([]string, 0, len(scored)-len(largest))
	for i, r := range scored {
		if _, ok := inLargest[i]; !ok {
			dissenting = append(dissenting, r.ProviderName)
		}
	}

	return domain.ConsensusOutcome{
		ConsensusReached:    2*len(largest) > len(scored),
		BestContent:         scored[winner].Content,
		BestProvider:        scored[winner].ProviderName,
		BestScore:           scored[winner].Score,
		Confidence:          float64(len(largest)) / float64(len(scored)),
		AgreementCount:      len(largest),
		TotalModels:         len(scored),
		DissentingProviders: dissenting,
		AllScored:           scored,
	}
}

// cluster seeds each cluster with the first unassigned reply and attaches
// every later reply whose similarity to the seed meets the threshold.
func (s *MajorityVoteStrategy) cluster(scored []domain.ScoredReply) [][]int {
	assigned := make([]bool, len(scored))
	clusters := make([][]int, 0, len(scored))

	for i := range scored {
		if assigned[i] {
			continue
		}

		cluster := []int{i}
		assigned[i] = true

		for j := i + 1; j < len(scored); j++ {
			if assigned[j] {
				continue
			}

			if scoring.Jaccard(scored[i].Content, scored[j].Content) >= s.threshold {
				cluster = append(cluster, j)
				assigned[j] = true
			}
		}

		clusters = append(clusters, cluster)
	}

	return clusters
}

package consensus_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcandiri/LLMForge/internal/consensus"
	"github.com/mcandiri/LLMForge/internal/domain"
)

func scored(name, content string, score float64) domain.ScoredReply {
	return domain.ScoredReply{
		ProviderName: name,
		Content:      content,
		Score:        score,
		ResponseTime: 100 * time.Millisecond,
		TotalTokens:  40,
	}
}

func TestHighestScoreStrategy(t *testing.T) {
	ctx := context.Background()

	t.Run("should crown the top score", func(t *testing.T) {
		s := consensus.NewHighestScore()

		outcome := s.Decide(ctx, []domain.ScoredReply{
			scored("a", "answer one", 0.7),
			scored("b", "answer two", 0.9),
			scored("c", "answer three", 0.5),
		})

		require.True(t, outcome.ConsensusReached)
		require.Equal(t, "b", outcome.BestProvider)
		require.InDelta(t, 0.9, outcome.BestScore, 1e-9)
		require.Equal(t, 3, outcome.TotalModels)
		require.Equal(t, 1, outcome.AgreementCount)
		require.Len(t, outcome.DissentingProviders, 2)
		require.Len(t, outcome.AllScored, 3)
	})

	t.Run("should break ties by insertion order", func(t *testing.T) {
		s := consensus.NewHighestScore()

		outcome := s.Decide(ctx, []domain.ScoredReply{
			scored("first", "x", 0.8),
			scored("second", "y", 0.8),
		})

		require.Equal(t, "first", outcome.BestProvider)
	})

	t.Run("should compute margin-based confidence", func(t *testing.T) {
		s := consensus.NewHighestScore()

		outcome := s.Decide(ctx, []domain.ScoredReply{
			scored("a", "x", 0.9),
			scored("b", "y", 0.6),
		})

		require.InDelta(t, 0.8, outcome.Confidence, 1e-9)
	})

	t.Run("should give full confidence to a single reply", func(t *testing.T) {
		s := consensus.NewHighestScore()

		outcome := s.Decide(ctx, []domain.ScoredReply{scored("only", "x", 0.4)})
		require.True(t, outcome.ConsensusReached)
		require.InDelta(t, 1.0, outcome.Confidence, 1e-9)
	})

	t.Run("should not reach consensus on empty input", func(t *testing.T) {
		s := consensus.NewHighestScore()

		outcome := s.Decide(ctx, nil)
		require.False(t, outcome.ConsensusReached)
		require.Zero(t, outcome.Confidence)
	})
}

func TestMajorityVoteStrategy(t *testing.T) {
	ctx := context.Background()

	t.Run("should cluster agreeing replies and isolate the outlier", func(t *testing.T) {
		s := consensus.NewMajorityVote(0.6)

		outcome := s.Decide(ctx, []domain.ScoredReply{
			scored("A", "Paris is the capital city of France", 0.8),
			scored("B", "The capital of France is Paris", 0.9),
			scored("C", "quantum physics dark matter", 0.7),
		})

		require.True(t, outcome.ConsensusReached)
		require.Equal(t, "B", outcome.BestProvider)
		require.Equal(t, 2, outcome.AgreementCount)
		require.Equal(t, []string{"C"}, outcome.DissentingProviders)
		require.InDelta(t, 2.0/3.0, outcome.Confidence, 1e-9)
	})

	t.Run("should not reach consensus without an absolute majority", func(t *testing.T) {
		s := consensus.NewMajorityVote(0.6)

		outcome := s.Decide(ctx, []domain.ScoredReply{
			scored("a", "alpha beta gamma", 0.8),
			scored("b", "delta epsilon zeta", 0.7),
			scored("c", "eta theta iota", 0.6),
			scored("d", "kappa lambda mu", 0.5),
		})

		require.False(t, outcome.ConsensusReached)
		require.Equal(t, 1, outcome.AgreementCount)
	})

	t.Run("should satisfy the agreement accounting invariant", func(t *testing.T) {
		s := consensus.NewMajorityVote(0.6)

		input := []domain.ScoredReply{
			scored("a", "Paris is the capital", 0.8),
			scored("b", "The capital is Paris", 0.9),
			scored("c", "something else entirely", 0.7),
		}

		outcome := s.Decide(ctx, input)
		require.Equal(t, outcome.TotalModels, outcome.AgreementCount+len(outcome.DissentingProviders))
		require.Equal(t, outcome.TotalModels, len(outcome.AllScored))
	})
}

func TestQuorumStrategy(t *testing.T) {
	ctx := context.Background()

	t.Run("should reject a quorum below one", func(t *testing.T) {
		_, err := consensus.NewQuorum(0, 0.6)
		require.Error(t, err)
	})

	t.Run("should not reach consensus with dissimilar replies", func(t *testing.T) {
		s, err := consensus.NewQuorum(3, 0.6)
		require.NoError(t, err)

		outcome := s.Decide(ctx, []domain.ScoredReply{
			scored("a", "alpha beta gamma", 0.8),
			scored("b", "delta epsilon zeta", 0.7),
			scored("c", "eta theta iota", 0.6),
		})

		require.False(t, outcome.ConsensusReached)
		require.Equal(t, 1, outcome.AgreementCount)
		require.InDelta(t, 1.0/3.0, outcome.Confidence, 1e-9)
	})

	t.Run("should reach consensus when enough replies agree", func(t *testing.T) {
		s, err := consensus.NewQuorum(2, 0.5)
		require.NoError(t, err)

		outcome := s.Decide(ctx, []domain.ScoredReply{
			scored("a", "Paris is the capital of France", 0.8),
			scored("b", "The capital of France is Paris", 0.7),
			scored("c", "unrelated musings on weather", 0.9),
		})

		require.True(t, outcome.ConsensusReached)
		require.Equal(t, 2, outcome.AgreementCount)
		require.Contains(t, []string{"a", "b"}, outcome.BestProvider)
	})

	t.Run("should never reach consensus when required exceeds replies", func(t *testing.T) {
		s, err := consensus.NewQuorum(5, 0.0)
		require.NoError(t, err)

		outcome := s.Decide(ctx, []domain.ScoredReply{
			scored("a", "same text", 0.8),
			scored("b", "same text", 0.7),
		})

		require.False(t, outcome.ConsensusReached)
	})

	t.Run("should break ties by original order", func(t *testing.T) {
		s, err := consensus.NewQuorum(1, 0.9)
		require.NoError(t, err)

		outcome := s.Decide(ctx, []domain.ScoredReply{
			scored("first", "alpha beta", 0.5),
			scored("second", "gamma delta", 0.9),
		})

		require.Equal(t, "first", outcome.BestProvider)
	})
}

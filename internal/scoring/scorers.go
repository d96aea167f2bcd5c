package scoring

import (
	"context"

	"github.com/mcandiri/LLMForge/internal/domain"
)

// Built-in scorer names, used as keys in weight maps.
const (
	NameResponseTime    = "ResponseTime"
	NameTokenEfficiency = "TokenEfficiency"
	NameConsensus       = "Consensus"
	NameValidationPass  = "ValidationPass"
	NameWeighted        = "Weighted"
)

// ResponseTimeScorer normalises duration across successful peers: the
// fastest reply scores 1.0, the slowest 0.0.
type ResponseTimeScorer struct{}

// NewResponseTime creates a response time scorer.
func NewResponseTime() *ResponseTimeScorer { return &ResponseTimeScorer{} }

// Name returns the scorer's registered key.
func (s *ResponseTimeScorer) Name() string { return NameResponseTime }

// Score rates reply against all peer replies.
func (s *ResponseTimeScorer) Score(_ context.Context, reply *domain.Reply, all []*domain.Reply) float64 {
	peers := successful(all)
	if len(peers) < 2 {
		return 1.0
	}

	min, max := peers[0].Duration, peers[0].Duration
	for _, p := range peers[1:] {
		if p.Duration < min {
			min = p.Duration
		}
		if p.Duration > max {
			max = p.Duration
		}
	}

	if max == min {
		return 1.0
	}

	return 1.0 - float64(reply.Duration-min)/float64(max-min)
}

// TokenEfficiencyScorer normalises completion token counts across
// successful peers with a positive count; fewer tokens score higher.
type TokenEfficiencyScorer struct{}

// NewTokenEfficiency creates a token efficiency scorer.
func NewTokenEfficiency() *TokenEfficiencyScorer { return &TokenEfficiencyScorer{} }

// Name returns the scorer's registered key.
func (s *TokenEfficiencyScorer) Name() string { return NameTokenEfficiency }

// Score rates reply against all peer replies.
func (s *TokenEfficiencyScorer) Score(_ context.Context, reply *domain.Reply, all []*domain.Reply) float64 {
	peers := make([]*domain.Reply, 0, len(all))
	for _, p := range successful(all) {
		if p.CompletionTokens > 0 {
			peers = append(peers, p)
		}
	}

	if len(peers) < 2 || reply.CompletionTokens <= 0 {
		return 1.0
	}

	min, max := peers[0].CompletionTokens, peers[0].CompletionTokens
	for _, p := range peers[1:] {
		if p.CompletionTokens < min {
			min = p.CompletionTokens
		}
		if p.CompletionTokens > max {
			max = p.CompletionTokens
		}
	}

	if max == min {
		return 1.0
	}

	return 1.0 - float64(reply.CompletionTokens-min)/float64(max-min)
}

// ConsensusScorer rates a reply by its average TF-IDF cosine similarity to
// every other successful reply.
type ConsensusScorer struct{}

// NewConsensus creates a consensus scorer.
func NewConsensus() *ConsensusScorer { return &ConsensusScorer{} }

// Name returns the scorer's registered key.
func (s *ConsensusScorer) Name() string { return NameConsensus }

// Score rates reply against all peer replies.
func (s *ConsensusScorer) Score(_ context.Context, reply *domain.Reply, all []*domain.Reply) float64 {
	peers := successful(all)
	if len(peers) < 2 {
		return 1.0
	}

	corpus := make([]string, 0, len(peers))
	for _, p := range peers {
		corpus = append(corpus, p.Content)
	}

	var total float64
	count := 0
	for _, p := range peers {
		if p == reply {
			continue
		}

		total += TFIDFCosine(reply.Content, p.Content, corpus)
		count++
	}

	if count == 0 {
		return 1.0
	}

	return total / float64(count)
}

// ValidationPassScorer scores a reply by the fraction of its validators
// that pass.
type ValidationPassScorer struct {
	validators []domain.Validator
}

// NewValidationPass creates a scorer over the given validators.
func NewValidationPass(validators ...domain.Validator) *ValidationPassScorer {
	return &ValidationPassScorer{validators: validators}
}

// Name returns the scorer's registered key.
func (s *ValidationPassScorer) Name() string { return NameValidationPass }

// Score rates reply by running every attached validator.
func (s *ValidationPassScorer) Score(ctx context.Context, reply *domain.Reply, _ []*domain.Reply) float64 {
	if len(s.validators) == 0 {
		return 1.0
	}

	passed := 0
	for _, v := range s.validators {
		if outcome := v.Validate(ctx, reply.Content); outcome.Valid {
			passed++
		}
	}

	return float64(passed) / float64(len(s.validators))
}

func successful(all []*domain.Reply) []*domain.Reply {
	out := make([]*domain.Reply, 0, len(all))
	for _, r := range all {
		if r.Success {
			out = append(out, r)
		}
	}

	return out
}

package domain

import "context"

// Provider is a uniform wrapper around one remote language-model endpoint.
type Provider interface {
	// Name returns the provider identifier (e.g. "openai").
	Name() string

	// ModelID returns the configured model (e.g. "gpt-4").
	ModelID() string

	// DisplayName returns "name/model" for logs and results.
	DisplayName() string

	// IsConfigured reports whether the adapter has everything it needs to
	// issue a request.
	IsConfigured() bool

	// Generate sends the prompt and returns a Reply. Remote faults are
	// encoded in the Reply; the error return is reserved for argument
	// errors (empty prompt).
	Generate(ctx context.Context, prompt, systemPrompt string) (*Reply, error)
}

// Validator is a predicate over reply content. The context allows
// network-backed implementations (e.g. a remote moderation service).
type Validator interface {
	// Name identifies the validator in outcomes and failure messages.
	Name() string

	// Validate checks the content and returns a verdict.
	Validate(ctx context.Context, content string) ValidationOutcome
}

// Scorer maps one reply plus its peers to a score in [0,1].
type Scorer interface {
	// Name returns the scorer's registered key (e.g. "ResponseTime").
	Name() string

	// Score rates reply against all peer replies.
	Score(ctx context.Context, reply *Reply, all []*Reply) float64
}

// ConsensusStrategy ranks scored replies and decides the winner.
type ConsensusStrategy interface {
	// Name returns the strategy identifier.
	Name() string

	// Decide produces the consensus outcome for the scored replies.
	Decide(ctx context.Context, scored []ScoredReply) ConsensusOutcome
}

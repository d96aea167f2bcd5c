package orchestrator_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/orchestrator"
	"github.com/mcandiri/LLMForge/internal/prompt"
	"github.com/mcandiri/LLMForge/internal/provider/registry"
	"github.com/mcandiri/LLMForge/internal/resilience"
	"github.com/mcandiri/LLMForge/internal/scoring"
	"github.com/mcandiri/LLMForge/internal/tracking"
)

// cannedProvider replies with a fixed Reply and records invocations.
type cannedProvider struct {
	name       string
	reply      domain.Reply
	configured bool
	calls      int
	prompts    []string
	systems    []string
}

func (c *cannedProvider) Name() string        { return c.name }
func (c *cannedProvider) ModelID() string     { return "canned-model" }
func (c *cannedProvider) DisplayName() string { return c.name + "/canned-model" }
func (c *cannedProvider) IsConfigured() bool  { return c.configured }

func (c *cannedProvider) Generate(_ context.Context, promptText, systemPrompt string) (*domain.Reply, error) {
	c.calls++
	c.prompts = append(c.prompts, promptText)
	c.systems = append(c.systems, systemPrompt)

	reply := c.reply
	reply.ProviderName = c.name

	return &reply, nil
}

func canned(name, content string, tokens int, latency time.Duration) *cannedProvider {
	return &cannedProvider{
		name:       name,
		configured: true,
		reply: domain.Reply{
			Success:          true,
			Content:          content,
			CompletionTokens: tokens,
			TotalTokens:      tokens,
			Duration:         latency,
		},
	}
}

func failingProvider(name, reason string) *cannedProvider {
	return &cannedProvider{
		name:       name,
		configured: true,
		reply:      domain.Reply{Success: false, Error: reason},
	}
}

func newOrchestrator(retry resilience.RetryPolicy, maxAttempts int, providers ...domain.Provider) (*orchestrator.Orchestrator, *tracking.PerformanceTracker) {
	reg := registry.NewRegistry()
	for _, p := range providers {
		reg.Register(p)
	}

	tracker := tracking.NewPerformanceTracker()

	return orchestrator.New(reg, tracker, prompt.NewLibrary(), retry, maxAttempts), tracker
}

func TestOrchestrator_Orchestrate(t *testing.T) {
	ctx := context.Background()

	t.Run("should pick the best of three parallel replies", func(t *testing.T) {
		a := canned("A", "The capital of France is Paris", 40, 100*time.Millisecond)
		b := canned("B", "Paris is the capital of France", 45, 150*time.Millisecond)
		c := canned("C", "France's capital is Paris", 30, 200*time.Millisecond)

		o, _ := newOrchestrator(nil, 1, a, b, c)

		result, err := o.Orchestrate(ctx, "What is the capital of France?", &orchestrator.Options{
			Weights: map[string]float64{
				scoring.NameResponseTime:    1,
				scoring.NameTokenEfficiency: 1,
				scoring.NameConsensus:       1,
			},
		})
		require.NoError(t, err)

		require.True(t, result.Success)
		require.True(t, result.ConsensusReached)
		require.Equal(t, "A", result.BestProvider)
		require.Equal(t, 3, result.TotalModels)
		require.Len(t, result.AllScored, 3)
		require.Equal(t, 1, a.calls)
		require.Equal(t, 1, b.calls)
		require.Equal(t, 1, c.calls)
	})

	t.Run("should isolate the outlier under majority vote", func(t *testing.T) {
		a := canned("A", "Paris is the capital city of France", 40, 100*time.Millisecond)
		b := canned("B", "The capital of France is Paris", 45, 150*time.Millisecond)
		c := canned("C", "quantum physics dark matter", 30, 200*time.Millisecond)

		o, _ := newOrchestrator(nil, 1, a, b, c)

		result, err := o.Orchestrate(ctx, "capital of France?", &orchestrator.Options{
			Consensus:           orchestrator.ConsensusMajorityVote,
			SimilarityThreshold: 0.6,
		})
		require.NoError(t, err)

		require.True(t, result.ConsensusReached)
		require.Equal(t, []string{"C"}, result.DissentingProviders)
		require.InDelta(t, 2.0/3.0, result.ConsensusConfidence, 1e-9)
		require.Contains(t, []string{"A", "B"}, result.BestProvider)
	})

	t.Run("should miss quorum for dissimilar replies", func(t *testing.T) {
		a := canned("A", "alpha beta gamma", 40, 100*time.Millisecond)
		b := canned("B", "delta epsilon zeta", 45, 150*time.Millisecond)
		c := canned("C", "eta theta iota", 30, 200*time.Millisecond)

		o, _ := newOrchestrator(nil, 1, a, b, c)

		result, err := o.Orchestrate(ctx, "prompt", &orchestrator.Options{
			Consensus:      orchestrator.ConsensusQuorum,
			QuorumRequired: 3,
		})
		require.NoError(t, err)

		require.True(t, result.Success)
		require.False(t, result.ConsensusReached)
		require.Equal(t, 1, result.AgreementCount)
		require.InDelta(t, 1.0/3.0, result.ConsensusConfidence, 1e-9)
	})

	t.Run("should fall back past a failing provider", func(t *testing.T) {
		p1 := failingProvider("P1", "boom")
		p2 := canned("P2", "recovered answer", 10, 50*time.Millisecond)
		p3 := canned("P3", "never used", 10, 50*time.Millisecond)

		o, _ := newOrchestrator(nil, 1, p1, p2, p3)

		result, err := o.Orchestrate(ctx, "prompt", &orchestrator.Options{
			Strategy:      orchestrator.StrategyFallback,
			FallbackOrder: []string{"P1", "P2", "P3"},
		})
		require.NoError(t, err)

		require.True(t, result.Success)
		require.Equal(t, "P2", result.BestProvider)
		require.Zero(t, p3.calls)
		require.Len(t, result.Failures, 1)
		require.Equal(t, "P1", result.Failures[0].Provider)
	})

	t.Run("should report no configured providers", func(t *testing.T) {
		unconfigured := &cannedProvider{name: "off", configured: false}

		o, _ := newOrchestrator(nil, 1, unconfigured)

		result, err := o.Orchestrate(ctx, "prompt", nil)
		require.NoError(t, err)
		require.False(t, result.Success)
		require.Equal(t, domain.MsgNoProviders, result.FailureReason)
	})

	t.Run("should retry the whole pipeline until attempts are exhausted", func(t *testing.T) {
		p := failingProvider("flaky", "boom")

		o, _ := newOrchestrator(resilience.NewFixedDelay(time.Millisecond, 5), 3, p)

		result, err := o.Orchestrate(ctx, "prompt", nil)
		require.NoError(t, err)

		require.False(t, result.Success)
		require.Equal(t, domain.MsgAllProvidersFailed, result.FailureReason)
		require.Equal(t, 3, p.calls)
	})

	t.Run("should reject unknown scorer names", func(t *testing.T) {
		o, _ := newOrchestrator(nil, 1, canned("a", "x", 1, time.Millisecond))

		_, err := o.Orchestrate(ctx, "prompt", &orchestrator.Options{
			Weights: map[string]float64{"Sentiment": 1},
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), "unknown scorer")
	})

	t.Run("should reject negative weights", func(t *testing.T) {
		o, _ := newOrchestrator(nil, 1, canned("a", "x", 1, time.Millisecond))

		_, err := o.Orchestrate(ctx, "prompt", &orchestrator.Options{
			Weights: map[string]float64{scoring.NameConsensus: -2},
		})
		require.Error(t, err)
	})

	t.Run("should reject an empty prompt synchronously", func(t *testing.T) {
		o, _ := newOrchestrator(nil, 1, canned("a", "x", 1, time.Millisecond))

		_, err := o.Orchestrate(ctx, "", nil)
		require.ErrorIs(t, err, domain.ErrEmptyPrompt)
	})

	t.Run("should update the performance tracker after consensus", func(t *testing.T) {
		fast := canned("fast", "same answer text", 10, 10*time.Millisecond)
		slow := canned("slow", "same answer text", 10, 400*time.Millisecond)
		dead := failingProvider("dead", "boom")

		o, tracker := newOrchestrator(nil, 1, fast, slow, dead)

		result, err := o.Orchestrate(ctx, "prompt", nil)
		require.NoError(t, err)
		require.True(t, result.Success)

		analytics := tracker.Analytics()
		require.EqualValues(t, 1, analytics["fast"].Successes)
		require.EqualValues(t, 1, analytics["slow"].Successes)
		require.EqualValues(t, 1, analytics["dead"].Failures)

		wins := analytics["fast"].Wins + analytics["slow"].Wins
		require.EqualValues(t, 1, wins)
	})
}

func TestOrchestrator_OrchestrateFromTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("should render the template before orchestrating", func(t *testing.T) {
		p := canned("a", "rendered fine", 10, time.Millisecond)

		reg := registry.NewRegistry()
		reg.Register(p)

		library := prompt.NewLibrary()
		library.Register(&prompt.Template{
			Name:         "capital",
			SystemPrompt: "You answer geography questions.",
			UserPrompt:   "What is the capital of {{country}}?",
			Defaults:     map[string]string{"country": "France"},
		})

		o := orchestrator.New(reg, tracking.NewPerformanceTracker(), library, nil, 1)

		result, err := o.OrchestrateFromTemplate(ctx, "capital", map[string]string{"country": "Japan"}, nil)
		require.NoError(t, err)
		require.True(t, result.Success)

		require.Equal(t, []string{"What is the capital of Japan?"}, p.prompts)
		require.Equal(t, []string{"You answer geography questions."}, p.systems)
	})

	t.Run("should error on unknown template", func(t *testing.T) {
		o, _ := newOrchestrator(nil, 1, canned("a", "x", 1, time.Millisecond))

		_, err := o.OrchestrateFromTemplate(ctx, "missing", nil, nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "unknown template")
	})
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mcandiri/LLMForge/internal/config"
	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/observability"
	"github.com/mcandiri/LLMForge/internal/orchestrator"
	"github.com/mcandiri/LLMForge/internal/prompt"
	"github.com/mcandiri/LLMForge/internal/provider/anthropic"
	"github.com/mcandiri/LLMForge/internal/provider/factory"
	"github.com/mcandiri/LLMForge/internal/provider/gemini"
	"github.com/mcandiri/LLMForge/internal/provider/ollama"
	"github.com/mcandiri/LLMForge/internal/provider/openai"
	"github.com/mcandiri/LLMForge/internal/provider/registry"
	"github.com/mcandiri/LLMForge/internal/resilience"
	"github.com/mcandiri/LLMForge/internal/tracking"
)

func main() {
	strategy := flag.String("strategy", orchestrator.StrategyParallel, "execution strategy: parallel, sequential or fallback")
	consensusName := flag.String("consensus", orchestrator.ConsensusHighestScore, "consensus strategy: highestscore, majorityvote or quorum")
	quorum := flag.Int("quorum", 2, "required agreeing replies for quorum consensus")
	system := flag.String("system", "", "system prompt")
	flag.Parse()

	promptText := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(promptText) == "" {
		fmt.Fprintln(os.Stderr, "usage: llmforge [flags] <prompt>")
		os.Exit(2)
	}

	container := buildContainer()

	err := container.Invoke(func(o *orchestrator.Orchestrator, logger *zap.Logger) error {
		defer func() { _ = logger.Sync() }()

		result, err := o.Orchestrate(context.Background(), promptText, &orchestrator.Options{
			Strategy:       *strategy,
			Consensus:      *consensusName,
			QuorumRequired: *quorum,
			SystemPrompt:   *system,
		})
		if err != nil {
			return err
		}

		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))

		return nil
	})
	if err != nil {
		log.Fatalf("Orchestration failed: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}

	// Provider Registry
	if err := container.Provide(registry.NewRegistry); err != nil {
		log.Fatalf("Failed to provide registry: %v", err)
	}

	// Register providers with registry (invoked for side effects)
	if err := container.Invoke(registerProviders); err != nil {
		log.Fatalf("Failed to register providers: %v", err)
	}

	// Tracking and templates
	if err := container.Provide(tracking.NewPerformanceTracker); err != nil {
		log.Fatalf("Failed to provide tracker: %v", err)
	}
	if err := container.Provide(prompt.NewLibrary); err != nil {
		log.Fatalf("Failed to provide template library: %v", err)
	}

	// Orchestrator
	if err := container.Provide(func(
		reg *registry.Registry,
		tracker *tracking.PerformanceTracker,
		library *prompt.Library,
		retryCfg *config.RetryConfig,
		orchCfg *config.OrchestratorConfig,
		logger *zap.Logger,
	) *orchestrator.Orchestrator {
		return orchestrator.New(reg, tracker, library, retryCfg.RetryPolicy(), orchCfg.MaxAttempts).
			WithEvents(observability.NewEventBus(logger))
	}); err != nil {
		log.Fatalf("Failed to provide orchestrator: %v", err)
	}

	return container
}

// registerProviders constructs every known adapter, each with its own
// circuit breaker, and registers it. Construction failures only skip the
// provider; whether it participates in orchestrations is its IsConfigured
// predicate.
func registerProviders(cfg *config.Config, breakerCfg *config.BreakerConfig, reg *registry.Registry, logger *zap.Logger) error {
	httpClient := http.DefaultClient
	bc := breakerCfg.ResilienceBreakerConfig()

	models := map[string]domain.ModelConfig{
		openai.Name:    cfg.OpenAIModelConfig(),
		anthropic.Name: cfg.AnthropicModelConfig(),
		gemini.Name:    cfg.GeminiModelConfig(),
		ollama.Name:    cfg.OllamaModelConfig(),
	}

	registered := 0
	for name, model := range models {
		p, err := factory.NewWithBreaker(name, httpClient, model, logger, resilience.NewCircuitBreaker(bc))
		if err != nil {
			logger.Warn("skipping provider", zap.String("provider", name), zap.Error(err))
			continue
		}

		reg.Register(p)
		registered++
	}

	if registered == 0 {
		return errors.New("no providers could be constructed")
	}

	return nil
}

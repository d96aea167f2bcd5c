package execution

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/observability"
)

// FallbackTrigger is a bitmask controlling which failure classes advance
// the fallback chain.
type FallbackTrigger int

const (
	// TriggerNone never advances.
	TriggerNone FallbackTrigger = 0

	// TriggerTimeout advances on timed-out calls.
	TriggerTimeout FallbackTrigger = 1

	// TriggerValidationFailure advances when a successful reply is
	// rejected by a validator.
	TriggerValidationFailure FallbackTrigger = 2

	// TriggerException advances on any other failure.
	TriggerException FallbackTrigger = 4

	// TriggerAll advances on every failure class.
	TriggerAll = TriggerTimeout | TriggerValidationFailure | TriggerException
)

// Has reports whether the mask contains the given trigger.
func (t FallbackTrigger) Has(trigger FallbackTrigger) bool {
	return t&trigger != 0
}

// FallbackStrategy invokes providers in order like Sequential, but only
// advances past a provider when the configured trigger mask permits. A
// non-triggering failure terminates the chain.
type FallbackStrategy struct {
	triggers   FallbackTrigger
	validators []domain.Validator
}

// NewFallback creates a fallback strategy with the given trigger mask.
func NewFallback(triggers FallbackTrigger) *FallbackStrategy {
	return &FallbackStrategy{triggers: triggers}
}

// WithValidators attaches validators consulted when the ValidationFailure
// trigger is set.
func (s *FallbackStrategy) WithValidators(validators ...domain.Validator) *FallbackStrategy {
	s.validators = append(s.validators, validators...)

	return s
}

// Name returns the strategy identifier.
func (s *FallbackStrategy) Name() string { return "Fallback" }

// Execute walks the provider chain until a reply sticks or a failure class
// outside the trigger mask stops it.
func (s *FallbackStrategy) Execute(ctx context.Context, providers []domain.Provider, prompt, systemPrompt string) (*Result, error) {
	if len(providers) == 0 {
		return nil, domain.ErrNoProviders
	}

	logger := observability.FromContext(ctx)

	start := time.Now()
	result := NewResult()

	for _, p := range providers {
		if ctx.Err() != nil {
			break
		}

		reply := generate(ctx, p, prompt, systemPrompt)
		result.Add(reply)

		if reply.Success {
			if s.triggers.Has(TriggerValidationFailure) && s.rejected(ctx, reply) {
				logger.Debug("fallback advancing past rejected reply", zap.String("provider", p.Name()))
				continue
			}

			break
		}

		if !s.shouldAdvance(reply) {
			logger.Debug("fallback chain terminated", zap.String("provider", p.Name()), zap.String("error", reply.Error))
			break
		}

		logger.Debug("fallback advancing past failure", zap.String("provider", p.Name()), zap.String("error", reply.Error))
	}

	result.Duration = time.Since(start)

	return result, nil
}

// rejected reports whether any attached validator refuses the reply.
func (s *FallbackStrategy) rejected(ctx context.Context, reply *domain.Reply) bool {
	for _, v := range s.validators {
		if outcome := v.Validate(ctx, reply.Content); !outcome.Valid {
			return true
		}
	}

	return false
}

// shouldAdvance classifies a failed reply against the trigger mask.
// Timeouts are recognised by the failure reason, everything else counts as
// an exception.
func (s *FallbackStrategy) shouldAdvance(reply *domain.Reply) bool {
	if isTimeout(reply.Error) {
		return s.triggers.Has(TriggerTimeout)
	}

	return s.triggers.Has(TriggerException)
}

func isTimeout(reason string) bool {
	return strings.Contains(strings.ToLower(reason), "timed out")
}

package validation

import (
	"context"
	"fmt"

	"github.com/mcandiri/LLMForge/internal/domain"
)

// CompositeValidator runs a list of validators in order.
type CompositeValidator struct {
	validators []domain.Validator
}

// NewComposite creates a composite over the given validators.
func NewComposite(validators ...domain.Validator) *CompositeValidator {
	return &CompositeValidator{validators: validators}
}

// Name identifies the validator in outcomes.
func (v *CompositeValidator) Name() string { return "Composite" }

// Validate short-circuits at the first failing child; the aggregate
// failure message names it.
func (v *CompositeValidator) Validate(ctx context.Context, content string) domain.ValidationOutcome {
	for _, child := range v.validators {
		if outcome := child.Validate(ctx, content); !outcome.Valid {
			return domain.ValidationOutcome{
				ValidatorName: v.Name(),
				Valid:         false,
				ErrorMessage:  fmt.Sprintf("%s failed: %s", child.Name(), outcome.ErrorMessage),
			}
		}
	}

	return domain.ValidationOutcome{ValidatorName: v.Name(), Valid: true}
}

// ValidateAll runs every child regardless of failures and returns their
// outcomes in order.
func (v *CompositeValidator) ValidateAll(ctx context.Context, content string) []domain.ValidationOutcome {
	outcomes := make([]domain.ValidationOutcome, 0, len(v.validators))
	for _, child := range v.validators {
		outcomes = append(outcomes, child.Validate(ctx, content))
	}

	return outcomes
}

package validation

import (
	"context"
	"fmt"

	"github.com/mcandiri/LLMForge/internal/domain"
)

// LengthValidator bounds the byte length of the content (len), which equals
// the character count for ASCII text. A zero bound is treated as absent.
type LengthValidator struct {
	min int
	max int
}

// NewLength creates a length validator; pass 0 to leave a bound open.
func NewLength(min, max int) *LengthValidator {
	return &LengthValidator{min: min, max: max}
}

// Name identifies the validator in outcomes.
func (v *LengthValidator) Name() string { return "Length" }

// Validate checks the content and returns a verdict.
func (v *LengthValidator) Validate(_ context.Context, content string) domain.ValidationOutcome {
	length := len(content)

	if v.min > 0 && length < v.min {
		return domain.ValidationOutcome{
			ValidatorName: v.Name(),
			Valid:         false,
			ErrorMessage:  fmt.Sprintf("content length %d is below minimum %d", length, v.min),
		}
	}

	if v.max > 0 && length > v.max {
		return domain.ValidationOutcome{
			ValidatorName: v.Name(),
			Valid:         false,
			ErrorMessage:  fmt.Sprintf("content length %d exceeds maximum %d", length, v.max),
		}
	}

	return domain.ValidationOutcome{ValidatorName: v.Name(), Valid: true}
}

package validation

import (
	"context"
	"fmt"

	"github.com/mcandiri/LLMForge/internal/domain"
)

// CustomValidator wraps a caller-supplied predicate. A panic inside the
// predicate becomes a failure carrying the panic message.
type CustomValidator struct {
	name    string
	fn      func(content string) bool
	message string
}

// NewCustom creates a named validator around fn; message is reported on
// failure.
func NewCustom(name string, fn func(content string) bool, message string) *CustomValidator {
	return &CustomValidator{name: name, fn: fn, message: message}
}

// Name identifies the validator in outcomes.
func (v *CustomValidator) Name() string { return v.name }

// Validate checks the content and returns a verdict.
func (v *CustomValidator) Validate(_ context.Context, content string) (outcome domain.ValidationOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = domain.ValidationOutcome{
				ValidatorName: v.name,
				Valid:         false,
				ErrorMessage:  fmt.Sprintf("%s: %v", v.message, r),
			}
		}
	}()

	if !v.fn(content) {
		return domain.ValidationOutcome{ValidatorName: v.name, Valid: false, ErrorMessage: v.message}
	}

	return domain.ValidationOutcome{ValidatorName: v.name, Valid: true}
}

package validation

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mcandiri/LLMForge/internal/domain"
)

// evaluationTimeout bounds a single pattern evaluation.
const evaluationTimeout = 5 * time.Second

// RegexValidator passes when the pattern matches anywhere in the content.
// The pattern is compiled once at construction.
type RegexValidator struct {
	pattern *regexp.Regexp
}

// NewRegex compiles the pattern and returns the validator.
func NewRegex(pattern string) (*RegexValidator, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	return &RegexValidator{pattern: re}, nil
}

// Name identifies the validator in outcomes.
func (v *RegexValidator) Name() string { return "Regex" }

// Validate checks the content and returns a verdict. Evaluation is bounded
// by a watchdog timeout.
func (v *RegexValidator) Validate(ctx context.Context, content string) domain.ValidationOutcome {
	if strings.TrimSpace(content) == "" {
		return domain.ValidationOutcome{ValidatorName: v.Name(), Valid: false, ErrorMessage: "content is empty"}
	}

	matched := make(chan bool, 1)
	go func() {
		matched <- v.pattern.MatchString(content)
	}()

	select {
	case ok := <-matched:
		if !ok {
			return domain.ValidationOutcome{
				ValidatorName: v.Name(),
				Valid:         false,
				ErrorMessage:  fmt.Sprintf("pattern %q not found", v.pattern.String()),
			}
		}

		return domain.ValidationOutcome{ValidatorName: v.Name(), Valid: true}
	case <-time.After(evaluationTimeout):
		return domain.ValidationOutcome{ValidatorName: v.Name(), Valid: false, ErrorMessage: "pattern evaluation timed out"}
	case <-ctx.Done():
		return domain.ValidationOutcome{ValidatorName: v.Name(), Valid: false, ErrorMessage: "pattern evaluation cancelled"}
	}
}

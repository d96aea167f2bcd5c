package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcandiri/LLMForge/internal/domain"
)

// ContentFilterValidator passes when every mustContain token occurs at
// least once and no mustNotContain token occurs.
type ContentFilterValidator struct {
	mustContain    []string
	mustNotContain []string
	caseSensitive  bool
}

// NewContentFilter creates a content filter. Matching is case-insensitive
// unless caseSensitive is set.
func NewContentFilter(mustContain, mustNotContain []string, caseSensitive bool) *ContentFilterValidator {
	return &ContentFilterValidator{
		mustContain:    mustContain,
		mustNotContain: mustNotContain,
		caseSensitive:  caseSensitive,
	}
}

// Name identifies the validator in outcomes.
func (v *ContentFilterValidator) Name() string { return "ContentFilter" }

// Validate checks the content and returns a verdict.
func (v *ContentFilterValidator) Validate(_ context.Context, content string) domain.ValidationOutcome {
	if strings.TrimSpace(content) == "" {
		return domain.ValidationOutcome{ValidatorName: v.Name(), Valid: false, ErrorMessage: "content is empty"}
	}

	haystack := content
	if !v.caseSensitive {
		haystack = strings.ToLower(content)
	}

	for _, token := range v.mustContain {
		if !strings.Contains(haystack, v.normalize(token)) {
			return domain.ValidationOutcome{
				ValidatorName: v.Name(),
				Valid:         false,
				ErrorMessage:  fmt.Sprintf("required token not found: %q", token),
			}
		}
	}

	for _, token := range v.mustNotContain {
		if strings.Contains(haystack, v.normalize(token)) {
			return domain.ValidationOutcome{
				ValidatorName: v.Name(),
				Valid:         false,
				ErrorMessage:  fmt.Sprintf("forbidden token found: %q", token),
			}
		}
	}

	return domain.ValidationOutcome{ValidatorName: v.Name(), Valid: true}
}

func (v *ContentFilterValidator) normalize(token string) string {
	if v.caseSensitive {
		return token
	}

	return strings.ToLower(token)
}

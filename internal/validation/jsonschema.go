// Package validation contains the reply validators: predicates over reply
// content that report a named outcome instead of an error.
package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcandiri/LLMForge/internal/domain"
)

// JSONSchemaValidator passes when the content parses as JSON and, when
// required properties are given, every one of them is a top-level member.
// A single leading fenced code block is stripped before parsing.
type JSONSchemaValidator struct {
	required []string
}

// NewJSONSchema creates a JSON validator with optional required top-level
// properties.
func NewJSONSchema(required ...string) *JSONSchemaValidator {
	return &JSONSchemaValidator{required: required}
}

// Name identifies the validator in outcomes.
func (v *JSONSchemaValidator) Name() string { return "JsonSchema" }

// Validate checks the content and returns a verdict.
func (v *JSONSchemaValidator) Validate(_ context.Context, content string) domain.ValidationOutcome {
	text := stripFence(strings.TrimSpace(content))
	if text == "" {
		return v.fail("content is empty")
	}

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return v.fail(fmt.Sprintf("content is not valid JSON: %v", err))
	}

	if len(v.required) > 0 {
		object, ok := parsed.(map[string]any)
		if !ok {
			return v.fail("content is not a JSON object")
		}

		for _, name := range v.required {
			if _, present := object[name]; !present {
				return v.fail(fmt.Sprintf("missing required property: %s", name))
			}
		}
	}

	return domain.ValidationOutcome{ValidatorName: v.Name(), Valid: true}
}

func (v *JSONSchemaValidator) fail(message string) domain.ValidationOutcome {
	return domain.ValidationOutcome{ValidatorName: v.Name(), Valid: false, ErrorMessage: message}
}

// stripFence removes one leading ``` fenced block wrapper when the whole
// text is wrapped in it.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	rest := text[3:]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[idx+1:]
	} else {
		return text
	}

	if idx := strings.LastIndex(rest, "```"); idx >= 0 {
		rest = rest[:idx]
	}

	return strings.TrimSpace(rest)
}

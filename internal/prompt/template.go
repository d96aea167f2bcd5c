// Package prompt provides named prompt templates with {{name}}
// substitution and a concurrent template library.
package prompt

import (
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Template is a named prompt pair with default variable values.
type Template struct {
	Name         string
	SystemPrompt string
	UserPrompt   string
	Defaults     map[string]string
}

// Rendered is the outcome of substituting variables into a template.
type Rendered struct {
	SystemPrompt string
	UserPrompt   string
}

// Render substitutes {{identifier}} placeholders in both prompts. Caller
// variables win over defaults; unknown placeholders are left verbatim.
func (t *Template) Render(vars map[string]string) Rendered {
	merged := make(map[string]string, len(t.Defaults)+len(vars))
	for k, v := range t.Defaults {
		merged[k] = v
	}
	for k, v := range vars {
		merged[k] = v
	}

	return Rendered{
		SystemPrompt: substitute(t.SystemPrompt, merged),
		UserPrompt:   substitute(t.UserPrompt, merged),
	}
}

func substitute(text string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-2]
		if value, ok := vars[name]; ok {
			return value
		}

		return match
	})
}

package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcandiri/LLMForge/internal/prompt"
)

func TestTemplate_Render(t *testing.T) {
	t.Run("should substitute caller variables over defaults", func(t *testing.T) {
		tpl := &prompt.Template{
			Name:         "greeting",
			SystemPrompt: "You speak {{language}}",
			UserPrompt:   "Say hello to {{name}} in {{language}}",
			Defaults:     map[string]string{"language": "English", "name": "World"},
		}

		rendered := tpl.Render(map[string]string{"name": "Alice"})
		require.Equal(t, "You speak English", rendered.SystemPrompt)
		require.Equal(t, "Say hello to Alice in English", rendered.UserPrompt)
	})

	t.Run("should leave unknown placeholders verbatim", func(t *testing.T) {
		tpl := &prompt.Template{
			Name:       "partial",
			UserPrompt: "Known {{known}} and unknown {{missing}}",
		}

		rendered := tpl.Render(map[string]string{"known": "value"})
		require.Equal(t, "Known value and unknown {{missing}}", rendered.UserPrompt)
	})

	t.Run("should render idempotently under fixed-point variables", func(t *testing.T) {
		tpl := &prompt.Template{
			Name:       "idempotent",
			UserPrompt: "Ask about {{topic}}",
		}
		vars := map[string]string{"topic": "Go generics"}

		first := tpl.Render(vars)
		second := tpl.Render(vars)
		require.Equal(t, first, second)
	})

	t.Run("should handle templates without placeholders", func(t *testing.T) {
		tpl := &prompt.Template{Name: "plain", UserPrompt: "static text"}

		rendered := tpl.Render(nil)
		require.Equal(t, "static text", rendered.UserPrompt)
	})
}

func TestLibrary(t *testing.T) {
	t.Run("should register and retrieve templates", func(t *testing.T) {
		lib := prompt.NewLibrary()
		tpl := &prompt.Template{Name: "summary", UserPrompt: "Summarise {{text}}"}

		lib.Register(tpl)

		got, ok := lib.Get("summary")
		require.True(t, ok)
		require.Equal(t, tpl, got)
	})

	t.Run("should replace on re-register", func(t *testing.T) {
		lib := prompt.NewLibrary()

		lib.Register(&prompt.Template{Name: "summary", UserPrompt: "v1"})
		lib.Register(&prompt.Template{Name: "summary", UserPrompt: "v2"})

		got, ok := lib.Get("summary")
		require.True(t, ok)
		require.Equal(t, "v2", got.UserPrompt)
	})

	t.Run("should miss unknown names", func(t *testing.T) {
		lib := prompt.NewLibrary()

		_, ok := lib.Get("missing")
		require.False(t, ok)
	})

	t.Run("should list registered names", func(t *testing.T) {
		lib := prompt.NewLibrary()
		lib.Register(&prompt.Template{Name: "one", UserPrompt: "x"})
		lib.Register(&prompt.Template{Name: "two", UserPrompt: "y"})

		require.ElementsMatch(t, []string{"one", "two"}, lib.Names())
	})
}

package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/provider/anthropic"
)

func newProvider(t *testing.T, baseURL string) domain.Provider {
	t.Helper()

	p, err := anthropic.New(nil, domain.ModelConfig{
		APIKey:         "test-key",
		Model:          "claude-3-5-haiku-latest",
		MaxTokens:      256,
		TimeoutSeconds: 5,
		Temperature:    0.5,
		BaseURL:        baseURL,
	}, zap.NewNop())
	require.NoError(t, err)

	return p
}

func TestAnthropicAdapter(t *testing.T) {
	t.Run("should send messages request and map reply", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/v1/messages", r.URL.Path)
			require.Equal(t, "test-key", r.Header.Get("x-api-key"))
			require.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "claude-3-5-haiku-latest", body["model"])
			require.Equal(t, "stay terse", body["system"])
			require.InDelta(t, 256, body["max_tokens"], 0)

			_ = json.NewEncoder(w).Encode(map[string]any{
				"content": []map[string]any{{"type": "text", "text": "Paris"}},
				"usage":   map[string]any{"input_tokens": 11, "output_tokens": 3},
			})
		}))
		defer server.Close()

		p := newProvider(t, server.URL)

		reply, err := p.Generate(context.Background(), "capital of France?", "stay terse")
		require.NoError(t, err)
		require.True(t, reply.Success)
		require.Equal(t, "Paris", reply.Content)
		require.Equal(t, 11, reply.PromptTokens)
		require.Equal(t, 3, reply.CompletionTokens)
		require.Equal(t, 14, reply.TotalTokens)
		require.Equal(t, "anthropic", reply.ProviderName)
	})

	t.Run("should classify 429 with rate limit hints", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Retry-After", "7")
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
		}))
		defer server.Close()

		p := newProvider(t, server.URL)

		reply, err := p.Generate(context.Background(), "hello", "")
		require.NoError(t, err)
		require.False(t, reply.Success)
		require.True(t, reply.RateLimited)
		require.Equal(t, http.StatusTooManyRequests, reply.HTTPStatus)
		require.NotNil(t, reply.RateLimit)
		require.Equal(t, 7*time.Second, reply.RateLimit.RetryAfter)
	})

	t.Run("should report unconfigured without api key", func(t *testing.T) {
		p, err := anthropic.New(nil, domain.ModelConfig{Model: "claude-3-5-haiku-latest"}, zap.NewNop())
		require.NoError(t, err)
		require.False(t, p.IsConfigured())
	})
}

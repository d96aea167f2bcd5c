package provider_test

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcandiri/LLMForge/internal/provider"
)

func TestParseRateLimitHeaders(t *testing.T) {
	t.Run("should parse retry-after delta seconds", func(t *testing.T) {
		h := http.Header{}
		h.Set("Retry-After", "30")

		info := provider.ParseRateLimitHeaders(h)
		require.NotNil(t, info)
		require.Equal(t, 30*time.Second, info.RetryAfter)
	})

	t.Run("should parse retry-after http date", func(t *testing.T) {
		h := http.Header{}
		h.Set("Retry-After", time.Now().Add(time.Minute).UTC().Format(http.TimeFormat))

		info := provider.ParseRateLimitHeaders(h)
		require.NotNil(t, info)
		require.Greater(t, info.RetryAfter, 30*time.Second)
		require.LessOrEqual(t, info.RetryAfter, time.Minute)
	})

	t.Run("should parse remaining, limit and reset", func(t *testing.T) {
		reset := time.Now().Add(time.Hour).Unix()

		h := http.Header{}
		h.Set("X-RateLimit-Remaining", "12")
		h.Set("X-RateLimit-Limit", "100")
		h.Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

		info := provider.ParseRateLimitHeaders(h)
		require.NotNil(t, info)
		require.Equal(t, 12, info.RemainingRequests)
		require.Equal(t, 100, info.Limit)
		require.Equal(t, reset, info.ResetAt.Unix())
	})

	t.Run("should drop malformed values silently", func(t *testing.T) {
		h := http.Header{}
		h.Set("Retry-After", "not-a-number")
		h.Set("X-RateLimit-Remaining", "many")
		h.Set("X-RateLimit-Limit", "")
		h.Set("X-RateLimit-Reset", "soon")

		info := provider.ParseRateLimitHeaders(h)
		require.Nil(t, info)
	})

	t.Run("should return nil without headers", func(t *testing.T) {
		require.Nil(t, provider.ParseRateLimitHeaders(nil))
		require.Nil(t, provider.ParseRateLimitHeaders(http.Header{}))
	})
}

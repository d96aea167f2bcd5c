package resilience_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcandiri/LLMForge/internal/domain"
	"github.com/mcandiri/LLMForge/internal/resilience"
)

func TestFixedDelayPolicy(t *testing.T) {
	t.Run("should return constant delay while attempts remain", func(t *testing.T) {
		p := resilience.NewFixedDelay(2*time.Second, 3)

		d, ok := p.NextDelay(1, nil)
		require.True(t, ok)
		require.Equal(t, 2*time.Second, d)

		d, ok = p.NextDelay(2, nil)
		require.True(t, ok)
		require.Equal(t, 2*time.Second, d)
	})

	t.Run("should refuse once attempts are exhausted", func(t *testing.T) {
		p := resilience.NewFixedDelay(time.Second, 3)

		_, ok := p.NextDelay(3, nil)
		require.False(t, ok)
	})
}

func TestExponentialBackoffPolicy(t *testing.T) {
	t.Run("should double delay per attempt without jitter", func(t *testing.T) {
		p := resilience.NewExponentialBackoff(time.Second, time.Minute, 5, false)

		cases := []struct {
			attempt int
			want    time.Duration
		}{
			{1, time.Second},
			{2, 2 * time.Second},
			{3, 4 * time.Second},
			{4, 8 * time.Second},
		}

		for _, tc := range cases {
			d, ok := p.NextDelay(tc.attempt, nil)
			require.True(t, ok)
			require.Equal(t, tc.want, d)
		}
	})

	t.Run("should cap the delay", func(t *testing.T) {
		p := resilience.NewExponentialBackoff(time.Second, 3*time.Second, 10, false)

		d, ok := p.NextDelay(5, nil)
		require.True(t, ok)
		require.Equal(t, 3*time.Second, d)
	})

	t.Run("should add jitter within 30 percent", func(t *testing.T) {
		p := resilience.NewExponentialBackoff(time.Second, time.Minute, 5, true)

		for i := 0; i < 50; i++ {
			d, ok := p.NextDelay(1, nil)
			require.True(t, ok)
			require.GreaterOrEqual(t, d, time.Second)
			require.LessOrEqual(t, d, 1300*time.Millisecond)
		}
	})

	t.Run("should refuse once attempts are exhausted", func(t *testing.T) {
		p := resilience.NewExponentialBackoff(time.Second, time.Minute, 2, false)

		_, ok := p.NextDelay(2, nil)
		require.False(t, ok)
	})
}

func TestRateLimitAwarePolicy(t *testing.T) {
	t.Run("should honour retry-after hint", func(t *testing.T) {
		p := resilience.NewRateLimitAware(time.Second, time.Minute, 5)

		last := &domain.Reply{
			Success:     false,
			Error:       "rate limited",
			RateLimited: true,
			RateLimit:   &domain.RateLimitInfo{RetryAfter: 2 * time.Second},
		}

		d, ok := p.NextDelay(1, last)
		require.True(t, ok)
		require.Equal(t, 2*time.Second, d)
	})

	t.Run("should cap retry-after at the configured maximum", func(t *testing.T) {
		p := resilience.NewRateLimitAware(time.Second, 5*time.Second, 5)

		last := &domain.Reply{
			RateLimit: &domain.RateLimitInfo{RetryAfter: time.Hour},
		}

		d, ok := p.NextDelay(1, last)
		require.True(t, ok)
		require.Equal(t, 5*time.Second, d)
	})

	t.Run("should fall back to backoff with jitter without hint", func(t *testing.T) {
		p := resilience.NewRateLimitAware(time.Second, time.Minute, 5)

		d, ok := p.NextDelay(1, &domain.Reply{})
		require.True(t, ok)
		require.GreaterOrEqual(t, d, time.Second)
		require.LessOrEqual(t, d, 1300*time.Millisecond)
	})

	t.Run("should never exceed the cap", func(t *testing.T) {
		p := resilience.NewRateLimitAware(time.Second, 10*time.Second, 100)

		for attempt := 1; attempt < 50; attempt++ {
			d, ok := p.NextDelay(attempt, nil)
			require.True(t, ok)
			require.LessOrEqual(t, d, 10*time.Second)
		}
	})

	t.Run("should refuse once attempts are exhausted", func(t *testing.T) {
		p := resilience.NewRateLimitAware(time.Second, time.Minute, 3)

		_, ok := p.NextDelay(3, nil)
		require.False(t, ok)
	})
}

package resilience_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcandiri/LLMForge/internal/resilience"
)

func testConfig() resilience.BreakerConfig {
	return resilience.BreakerConfig{
		FailureThreshold:         3,
		OpenDuration:             50 * time.Millisecond,
		HalfOpenSuccessThreshold: 2,
		Enabled:                  true,
	}
}

func TestCircuitBreaker_Allow(t *testing.T) {
	t.Run("should allow calls while closed", func(t *testing.T) {
		b := resilience.NewCircuitBreaker(testConfig())

		require.True(t, b.Allow())
		require.Equal(t, resilience.StateClosed, b.State())
	})

	t.Run("should open after threshold consecutive failures", func(t *testing.T) {
		b := resilience.NewCircuitBreaker(testConfig())

		b.RecordFailure()
		b.RecordFailure()
		require.True(t, b.Allow())

		b.RecordFailure()
		require.False(t, b.Allow())
		require.Equal(t, resilience.StateOpen, b.State())
	})

	t.Run("should reset failure streak on success", func(t *testing.T) {
		b := resilience.NewCircuitBreaker(testConfig())

		b.RecordFailure()
		b.RecordFailure()
		b.RecordSuccess()
		b.RecordFailure()
		b.RecordFailure()

		require.True(t, b.Allow())
	})

	t.Run("should always allow when disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Enabled = false
		b := resilience.NewCircuitBreaker(cfg)

		for i := 0; i < 10; i++ {
			b.RecordFailure()
		}

		require.True(t, b.Allow())
		require.Equal(t, resilience.StateClosed, b.State())
	})
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	t.Run("should move to half-open after open duration", func(t *testing.T) {
		b := resilience.NewCircuitBreaker(testConfig())

		for i := 0; i < 3; i++ {
			b.RecordFailure()
		}
		require.False(t, b.Allow())

		time.Sleep(60 * time.Millisecond)

		require.True(t, b.Allow())
		require.Equal(t, resilience.StateHalfOpen, b.State())
	})

	t.Run("should close after enough half-open successes", func(t *testing.T) {
		b := resilience.NewCircuitBreaker(testConfig())

		for i := 0; i < 3; i++ {
			b.RecordFailure()
		}
		time.Sleep(60 * time.Millisecond)
		require.Equal(t, resilience.StateHalfOpen, b.State())

		b.RecordSuccess()
		require.Equal(t, resilience.StateHalfOpen, b.State())

		b.RecordSuccess()
		require.Equal(t, resilience.StateClosed, b.State())
		require.Zero(t, b.ConsecutiveFailures())
	})

	t.Run("should reopen on half-open failure", func(t *testing.T) {
		b := resilience.NewCircuitBreaker(testConfig())

		for i := 0; i < 3; i++ {
			b.RecordFailure()
		}
		time.Sleep(60 * time.Millisecond)
		require.Equal(t, resilience.StateHalfOpen, b.State())

		b.RecordFailure()
		require.Equal(t, resilience.StateOpen, b.State())
		require.False(t, b.Allow())
	})

	t.Run("should agree between Allow and State on first post-timeout call", func(t *testing.T) {
		b := resilience.NewCircuitBreaker(testConfig())

		for i := 0; i < 3; i++ {
			b.RecordFailure()
		}
		time.Sleep(60 * time.Millisecond)

		// Reading state performs the Open->HalfOpen transition itself.
		require.Equal(t, resilience.StateHalfOpen, b.State())
		require.True(t, b.Allow())
	})
}

func TestCircuitBreaker_Reset(t *testing.T) {
	t.Run("should return to closed and clear counters", func(t *testing.T) {
		b := resilience.NewCircuitBreaker(testConfig())

		for i := 0; i < 3; i++ {
			b.RecordFailure()
		}
		require.False(t, b.Allow())

		b.Reset()

		require.True(t, b.Allow())
		require.Equal(t, resilience.StateClosed, b.State())
		require.Zero(t, b.ConsecutiveFailures())
	})
}

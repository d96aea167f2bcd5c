package resilience

import (
	"math"
	"math/rand"
	"time"

	"github.com/mcandiri/LLMForge/internal/domain"
)

const jitterFraction = 0.3

// RetryPolicy yields the delay before the next attempt, or refuses.
// Attempts are numbered from 1. The last failed reply (possibly nil) lets
// rate-limit aware policies honour server hints.
type RetryPolicy interface {
	// Name identifies the policy in logs.
	Name() string

	// NextDelay returns the delay to wait before attempt+1, and whether a
	// retry should happen at all.
	NextDelay(attempt int, last *domain.Reply) (time.Duration, bool)
}

// FixedDelayPolicy waits the same delay between every attempt.
type FixedDelayPolicy struct {
	delay       time.Duration
	maxAttempts int
}

// NewFixedDelay creates a policy that retries up to maxAttempts with a
// constant delay.
func NewFixedDelay(delay time.Duration, maxAttempts int) *FixedDelayPolicy {
	return &FixedDelayPolicy{delay: delay, maxAttempts: maxAttempts}
}

// Name identifies the policy in logs.
func (p *FixedDelayPolicy) Name() string { return "FixedDelay" }

// NextDelay returns the fixed delay while attempts remain.
func (p *FixedDelayPolicy) NextDelay(attempt int, _ *domain.Reply) (time.Duration, bool) {
	if attempt >= p.maxAttempts {
		return 0, false
	}

	return p.delay, true
}

// ExponentialBackoffPolicy doubles the delay each attempt up to a cap, with
// optional jitter.
type ExponentialBackoffPolicy struct {
	base        time.Duration
	cap         time.Duration
	maxAttempts int
	jitter      bool
}

// NewExponentialBackoff creates a backoff policy. With jitter enabled a
// uniform random value in [0, 0.3*delay] is added to each delay.
func NewExponentialBackoff(base, cap time.Duration, maxAttempts int, jitter bool) *ExponentialBackoffPolicy {
	return &ExponentialBackoffPolicy{
		base:        base,
		cap:         cap,
		maxAttempts: maxAttempts,
		jitter:      jitter,
	}
}

// Name identifies the policy in logs.
func (p *ExponentialBackoffPolicy) Name() string { return "ExponentialBackoff" }

// NextDelay returns min(cap, base*2^(attempt-1)), plus jitter when enabled.
func (p *ExponentialBackoffPolicy) NextDelay(attempt int, _ *domain.Reply) (time.Duration, bool) {
	if attempt >= p.maxAttempts {
		return 0, false
	}

	return p.backoff(attempt), true
}

func (p *ExponentialBackoffPolicy) backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(p.base) * math.Pow(2, float64(attempt-1))
	if delay > float64(p.cap) {
		delay = float64(p.cap)
	}

	if p.jitter {
		delay += rand.Float64() * jitterFraction * delay
		if delay > float64(p.cap) {
			delay = float64(p.cap)
		}
	}

	return time.Duration(delay)
}

// RateLimitAwarePolicy honours the server's Retry-After hint when the last
// reply carried one, falling back to exponential backoff with jitter.
type RateLimitAwarePolicy struct {
	backoff *ExponentialBackoffPolicy
	cap     time.Duration
}

// NewRateLimitAware creates a rate-limit aware retry policy.
func NewRateLimitAware(base, cap time.Duration, maxAttempts int) *RateLimitAwarePolicy {
	return &RateLimitAwarePolicy{
		backoff: NewExponentialBackoff(base, cap, maxAttempts, true),
		cap:     cap,
	}
}

// Name identifies the policy in logs.
func (p *RateLimitAwarePolicy) Name() string { return "RateLimitAware" }

// NextDelay returns min(RetryAfter, cap) when the last reply carried a
// rate-limit hint; otherwise exponential backoff with jitter.
func (p *RateLimitAwarePolicy) NextDelay(attempt int, last *domain.Reply) (time.Duration, bool) {
	if attempt >= p.backoff.maxAttempts {
		return 0, false
	}

	if last != nil && last.RateLimit != nil && last.RateLimit.RetryAfter > 0 {
		delay := last.RateLimit.RetryAfter
		if delay > p.cap {
			delay = p.cap
		}

		return delay, true
	}

	return p.backoff.backoff(attempt), true
}

// Package resilience contains the per-provider fault handling primitives:
// the circuit breaker that shields an unhealthy endpoint and the retry
// policies that pace repeated attempts.
package resilience

import (
	"sync"
	"time"
)

// BreakerState enumerates the circuit breaker states.
type BreakerState int

const (
	// StateClosed lets every call through.
	StateClosed BreakerState = iota

	// StateOpen rejects calls until the open duration elapses.
	StateOpen

	// StateHalfOpen lets probe calls through while recovery is confirmed.
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig tunes a circuit breaker.
type BreakerConfig struct {
	FailureThreshold         int
	OpenDuration             time.Duration
	HalfOpenSuccessThreshold int
	Enabled                  bool
}

// DefaultBreakerConfig returns the configuration used when none is supplied.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold:         5,
		OpenDuration:             30 * time.Second,
		HalfOpenSuccessThreshold: 2,
		Enabled:                  true,
	}
}

// CircuitBreaker is a Closed/Open/HalfOpen state machine protecting one
// provider. Reading State is itself a transition point: the first read (or
// Allow) after OpenDuration has elapsed moves Open to HalfOpen, so Allow and
// State agree on the first post-timeout call.
type CircuitBreaker struct {
	mu                  sync.Mutex
	cfg                 BreakerConfig
	state               BreakerState
	consecutiveFailures int
	halfOpenSuccesses   int
	openedAt            time.Time
}

// NewCircuitBreaker creates a breaker in the Closed state.
func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:   cfg,
		state: StateClosed,
	}
}

// Allow reports whether a call may proceed. In Open it returns false until
// OpenDuration has elapsed, at which point the breaker moves to HalfOpen.
// Every call in HalfOpen is admitted as a probe; the number of probes is not
// limited.
func (b *CircuitBreaker) Allow() bool {
	if !b.cfg.Enabled {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.maybeHalfOpenLocked()

	return b.state != StateOpen
}

// State returns the current state, performing the Open->HalfOpen transition
// when the open duration has elapsed.
func (b *CircuitBreaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cfg.Enabled {
		b.maybeHalfOpenLocked()
	}

	return b.state
}

// RecordSuccess notes a successful call.
func (b *CircuitBreaker) RecordSuccess() {
	if !b.cfg.Enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.consecutiveFailures = 0
	case StateHalfOpen:
		b.halfOpenSuccesses++
		if b.halfOpenSuccesses >= b.cfg.HalfOpenSuccessThreshold {
			b.state = StateClosed
			b.consecutiveFailures = 0
		}
	case StateOpen:
		// A success while Open can only come from a call admitted before
		// the breaker tripped; it does not change state.
	}
}

// RecordFailure notes a failed call.
func (b *CircuitBreaker) RecordFailure() {
	if !b.cfg.Enabled {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.consecutiveFailures++
		if b.consecutiveFailures >= b.cfg.FailureThreshold {
			b.state = StateOpen
			b.openedAt = time.Now()
		}
	case StateHalfOpen:
		b.state = StateOpen
		b.openedAt = time.Now()
	case StateOpen:
	}
}

// Reset returns the breaker to Closed and clears all counters.
func (b *CircuitBreaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = StateClosed
	b.consecutiveFailures = 0
	b.halfOpenSuccesses = 0
	b.openedAt = time.Time{}
}

// ConsecutiveFailures returns the current failure streak.
func (b *CircuitBreaker) ConsecutiveFailures() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.consecutiveFailures
}

// maybeHalfOpenLocked performs the Open->HalfOpen transition once the open
// duration has elapsed. Caller holds b.mu.
func (b *CircuitBreaker) maybeHalfOpenLocked() {
	if b.state == StateOpen && time.Since(b.openedAt) >= b.cfg.OpenDuration {
		b.state = StateHalfOpen
		b.halfOpenSuccesses = 0
	}
}

// Package execution contains the strategies that coordinate how the
// provider set is invoked: all at once, serially, or serially with
// trigger-controlled fallback.
package execution

import (
	"time"

	"github.com/mcandiri/LLMForge/internal/domain"
)

// Result is an insertion-ordered map from provider name to Reply plus the
// total wall-clock duration of the strategy run. Duplicate names collapse;
// the last writer wins while the original position is kept.
type Result struct {
	order    []string
	replies  map[string]*domain.Reply
	Duration time.Duration
}

// NewResult creates an empty execution result.
func NewResult() *Result {
	return &Result{
		replies: make(map[string]*domain.Reply),
	}
}

// Add records a reply under its provider name.
func (r *Result) Add(reply *domain.Reply) {
	if reply == nil {
		return
	}

	if _, exists := r.replies[reply.ProviderName]; !exists {
		r.order = append(r.order, reply.ProviderName)
	}

	r.replies[reply.ProviderName] = reply
}

// Get returns the reply for a provider name.
func (r *Result) Get(name string) (*domain.Reply, bool) {
	reply, ok := r.replies[name]

	return reply, ok
}

// Len returns the number of distinct providers recorded.
func (r *Result) Len() int {
	return len(r.order)
}

// All returns every reply in insertion order.
func (r *Result) All() []*domain.Reply {
	out := make([]*domain.Reply, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.replies[name])
	}

	return out
}

// Successful returns the successful replies in insertion order.
func (r *Result) Successful() []*domain.Reply {
	out := make([]*domain.Reply, 0, len(r.order))
	for _, name := range r.order {
		if reply := r.replies[name]; reply.Success {
			out = append(out, reply)
		}
	}

	return out
}

// Failed returns the failed replies in insertion order.
func (r *Result) Failed() []*domain.Reply {
	out := make([]*domain.Reply, 0, len(r.order))
	for _, name := range r.order {
		if reply := r.replies[name]; !reply.Success {
			out = append(out, reply)
		}
	}

	return out
}

// Package tracking accumulates per-provider performance counters across
// orchestrations and derives analytics on read.
package tracking

import (
	"sync"
	"time"
)

// PerformanceRecord holds the raw counters for one provider. Updated only
// by the orchestrator after consensus.
type PerformanceRecord struct {
	mu             sync.Mutex
	totalRequests  int64
	successes      int64
	failures       int64
	totalLatencyMs int64
	totalScore     float64
	totalTokens    int64
	wins           int64
}

// ProviderAnalytics is a read-time snapshot with derived metrics.
type ProviderAnalytics struct {
	Provider       string        `json:"provider"`
	TotalRequests  int64         `json:"total_requests"`
	Successes      int64         `json:"successes"`
	Failures       int64         `json:"failures"`
	Wins           int64         `json:"wins"`
	SuccessRate    float64       `json:"success_rate"`
	AverageLatency time.Duration `json:"average_latency"`
	AverageScore   float64       `json:"average_score"`
	WinRate        float64       `json:"win_rate"`
	AvgTokens      float64       `json:"avg_tokens"`
}

// PerformanceTracker is a process-wide collaborator shared by all pipeline
// invocations. It lives as long as the orchestrator that owns it.
type PerformanceTracker struct {
	records sync.Map // provider -> *PerformanceRecord
}

// NewPerformanceTracker creates an empty tracker.
func NewPerformanceTracker() *PerformanceTracker {
	return &PerformanceTracker{}
}

// RecordSuccess adds one successful call for the provider. won marks the
// consensus winner of the orchestration.
func (t *PerformanceTracker) RecordSuccess(provider string, latency time.Duration, score float64, tokens int, won bool) {
	record := t.record(provider)

	record.mu.Lock()
	defer record.mu.Unlock()

	record.totalRequests++
	record.successes++
	record.totalLatencyMs += latency.Milliseconds()
	record.totalScore += score
	record.totalTokens += int64(tokens)
	if won {
		record.wins++
	}
}

// RecordFailure adds one failed call for the provider.
func (t *PerformanceTracker) RecordFailure(provider string) {
	record := t.record(provider)

	record.mu.Lock()
	defer record.mu.Unlock()

	record.totalRequests++
	record.failures++
}

// Analytics returns a fresh snapshot of every tracked provider.
func (t *PerformanceTracker) Analytics() map[string]ProviderAnalytics {
	out := make(map[string]ProviderAnalytics)

	t.records.Range(func(key, value any) bool {
		provider := key.(string)
		record := value.(*PerformanceRecord)

		record.mu.Lock()
		snapshot := ProviderAnalytics{
			Provider:      provider,
			TotalRequests: record.totalRequests,
			Successes:     record.successes,
			Failures:      record.failures,
			Wins:          record.wins,
		}

		if record.totalRequests > 0 {
			snapshot.SuccessRate = float64(record.successes) / float64(record.totalRequests)
			snapshot.WinRate = float64(record.wins) / float64(record.totalRequests)
		}

		if record.successes > 0 {
			snapshot.AverageLatency = time.Duration(record.totalLatencyMs/record.successes) * time.Millisecond
			snapshot.AverageScore = record.totalScore / float64(record.successes)
			snapshot.AvgTokens = float64(record.totalTokens) / float64(record.successes)
		}
		record.mu.Unlock()

		out[provider] = snapshot

		return true
	})

	return out
}

// Reset clears every record.
func (t *PerformanceTracker) Reset() {
	t.records.Range(func(key, _ any) bool {
		t.records.Delete(key)
		return true
	})
}

func (t *PerformanceTracker) record(provider string) *PerformanceRecord {
	value, _ := t.records.LoadOrStore(provider, &PerformanceRecord{})

	return value.(*PerformanceRecord)
}

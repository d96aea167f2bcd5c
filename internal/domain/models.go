package domain

import "time"

// Reply is the uniform result of one provider call. It is constructed once
// inside the provider adapter at the end of Generate and never mutated
// afterwards. Remote faults are encoded here rather than surfaced as errors.
type Reply struct {
	ProviderName     string         `json:"provider_name"`
	ModelID          string         `json:"model_id"`
	Content          string         `json:"content"`
	PromptTokens     int            `json:"prompt_tokens"`
	CompletionTokens int            `json:"completion_tokens"`
	TotalTokens      int            `json:"total_tokens"`
	Duration         time.Duration  `json:"duration"`
	Success          bool           `json:"success"`
	Error            string         `json:"error,omitempty"`
	RateLimited      bool           `json:"rate_limited,omitempty"`
	HTTPStatus       int            `json:"http_status,omitempty"`
	RateLimit        *RateLimitInfo `json:"rate_limit,omitempty"`
}

// RateLimitInfo carries throttling hints parsed from HTTP headers on a 429.
// Zero values mean the header was absent or malformed.
type RateLimitInfo struct {
	RetryAfter        time.Duration `json:"retry_after,omitempty"`
	RemainingRequests int           `json:"remaining_requests,omitempty"`
	ResetAt           time.Time     `json:"reset_at,omitempty"`
	Limit             int           `json:"limit,omitempty"`
}

// ValidationOutcome is the verdict of one validator over one reply.
type ValidationOutcome struct {
	ValidatorName string `json:"validator_name"`
	Valid         bool   `json:"valid"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

// ScoredReply pairs a successful reply with its composite score and the
// per-scorer breakdown that produced it.
type ScoredReply struct {
	ProviderName string             `json:"provider_name"`
	Content      string             `json:"content"`
	Score        float64            `json:"score"`
	Breakdown    map[string]float64 `json:"breakdown,omitempty"`
	ResponseTime time.Duration      `json:"response_time"`
	TotalTokens  int                `json:"total_tokens"`
}

// ConsensusOutcome is the decision of a consensus strategy over the full
// set of scored replies. Created exactly once per pipeline pass.
type ConsensusOutcome struct {
	ConsensusReached    bool          `json:"consensus_reached"`
	BestContent         string        `json:"best_content,omitempty"`
	BestProvider        string        `json:"best_provider,omitempty"`
	BestScore           float64       `json:"best_score"`
	Confidence          float64       `json:"confidence"`
	AgreementCount      int           `json:"agreement_count"`
	TotalModels         int           `json:"total_models"`
	DissentingProviders []string      `json:"dissenting_providers,omitempty"`
	AllScored           []ScoredReply `json:"all_scored"`
}

// ModelConfig holds everything an adapter needs to issue requests.
type ModelConfig struct {
	APIKey         string  `json:"-"`
	Model          string  `json:"model"`
	MaxTokens      int     `json:"max_tokens"`
	TimeoutSeconds int     `json:"timeout_seconds"`
	BaseURL        string  `json:"base_url,omitempty"`
	Temperature    float64 `json:"temperature"`
	ProviderName   string  `json:"provider_name"`
}

// PipelineEvent records one step of a pipeline pass for diagnostics.
type PipelineEvent struct {
	Step      string    `json:"step"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ProviderFailure names a provider together with the error it reported.
type ProviderFailure struct {
	Provider string `json:"provider"`
	Error    string `json:"error"`
}

// OrchestrationResult is the consumer-facing shape of one orchestration.
type OrchestrationResult struct {
	Success             bool              `json:"success"`
	BestContent         string            `json:"best_content,omitempty"`
	BestProvider        string            `json:"best_provider,omitempty"`
	BestScore           float64           `json:"best_score"`
	ConsensusReached    bool              `json:"consensus_reached"`
	ConsensusConfidence float64           `json:"consensus_confidence"`
	AgreementCount      int               `json:"agreement_count"`
	TotalModels         int               `json:"total_models"`
	DissentingProviders []string          `json:"dissenting_providers,omitempty"`
	AllScored           []ScoredReply     `json:"all_scored,omitempty"`
	ExecutionTime       time.Duration     `json:"execution_time"`
	FailureReason       string            `json:"failure_reason,omitempty"`
	Failures            []ProviderFailure `json:"failures,omitempty"`
	PipelineEvents      []PipelineEvent   `json:"pipeline_events,omitempty"`
}

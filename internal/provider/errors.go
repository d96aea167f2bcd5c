package provider

import (
	"fmt"
	"net/http"

	"github.com/mcandiri/LLMForge/internal/domain"
)

// ProviderError is a classified remote fault carrying the HTTP status and,
// for 429 responses, the parsed rate-limit hints. Adapters return it from
// sendRequest; the base wrapper folds it into the Reply.
type ProviderError struct {
	StatusCode int
	Message    string
	RateLimit  *domain.RateLimitInfo
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Message)
	}

	return e.Message
}

// Retryable reports whether the fault is worth retrying: 429 and the
// transient 5xx statuses.
func (e *ProviderError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// RateLimited reports whether the fault was a 429.
func (e *ProviderError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// NewHTTPError builds a ProviderError from an HTTP response status, body
// excerpt and headers. Rate-limit hints are parsed only for 429.
func NewHTTPError(status int, message string, headers http.Header) *ProviderError {
	err := &ProviderError{
		StatusCode: status,
		Message:    message,
	}

	if status == http.StatusTooManyRequests {
		err.RateLimit = ParseRateLimitHeaders(headers)
	}

	return err
}

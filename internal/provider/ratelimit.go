package provider

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mcandiri/LLMForge/internal/domain"
)

// ParseRateLimitHeaders extracts throttling hints from HTTP headers.
// Retry-After accepts either delta-seconds or an HTTP-date. Malformed
// values are silently dropped. Returns nil when no hint was present.
func ParseRateLimitHeaders(headers http.Header) *domain.RateLimitInfo {
	if headers == nil {
		return nil
	}

	info := &domain.RateLimitInfo{}
	found := false

	if raw := headers.Get("Retry-After"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs >= 0 {
			info.RetryAfter = time.Duration(secs) * time.Second
			found = true
		} else if at, err := http.ParseTime(raw); err == nil {
			if wait := time.Until(at); wait > 0 {
				info.RetryAfter = wait
			}
			found = true
		}
	}

	if raw := headers.Get("X-RateLimit-Remaining"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			info.RemainingRequests = n
			found = true
		}
	}

	if raw := headers.Get("X-RateLimit-Limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			info.Limit = n
			found = true
		}
	}

	if raw := headers.Get("X-RateLimit-Reset"); raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			info.ResetAt = time.Unix(unix, 0)
			found = true
		}
	}

	if !found {
		return nil
	}

	return info
}

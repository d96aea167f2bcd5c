package domain

import "errors"

// Canonical failure messages carried inside Reply.Error.
const (
	MsgCircuitOpen        = "circuit open"
	MsgCancelledOrTimeout = "cancelled or timed out"
	MsgAllProvidersFailed = "All providers failed"
	MsgNoProviders        = "No configured providers available"
)

// Argument errors rejected synchronously at component boundaries.
var (
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
	ErrNoProviders = errors.New("provider list cannot be empty")
)

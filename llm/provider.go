package llm

import (
	"context"
	"errors"
	"time"
)

// ErrorCode aligns provider failures with the narrator's degradation policy:
// unavailable and failed calls fall back to the deterministic decision table,
// everything else is call-scoped.
type ErrorCode string

const (
	ErrInvalidRequest      ErrorCode = "LLM_INVALID_REQUEST"
	ErrRateLimited         ErrorCode = "LLM_RATE_LIMITED"
	ErrUpstreamTimeout     ErrorCode = "LLM_UPSTREAM_TIMEOUT"
	ErrUpstreamError       ErrorCode = "LLM_UPSTREAM_ERROR"
	ErrProviderUnavailable ErrorCode = "LLM_PROVIDER_UNAVAILABLE"
)

// Error is the typed error returned by providers.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Provider   string    `json:"provider,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// IsUnavailable reports whether err marks the provider as not ready at all,
// as opposed to a single failed call.
func IsUnavailable(err error) bool {
	var le *Error
	return errors.As(err, &le) && le.Code == ErrProviderUnavailable
}

// IsRetryable reports whether err is worth retrying on the same provider.
func IsRetryable(err error) bool {
	var le *Error
	return errors.As(err, &le) && le.Retryable
}

// CompletionRequest is the sole request shape the narrator core issues.
type CompletionRequest struct {
	System      string  `json:"system"`
	User        string  `json:"user"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
}

// CompletionResponse carries the raw completion text plus diagnostics.
type CompletionResponse struct {
	Provider         string        `json:"provider"`
	Model            string        `json:"model,omitempty"`
	Text             string        `json:"text"`
	PromptTokens     int           `json:"prompt_tokens,omitempty"`
	CompletionTokens int           `json:"completion_tokens,omitempty"`
	Latency          time.Duration `json:"latency"`
}

// HealthStatus is the result of a lightweight provider probe.
type HealthStatus struct {
	Healthy bool          `json:"healthy"`
	Latency time.Duration `json:"latency"`
}

// Provider is the text-completion capability. Implementations must be
// independently callable with no shared state beyond what each call passes
// explicitly; any per-instance caches (such as the local provider's
// availability flag) must be resettable.
type Provider interface {
	// Complete performs one synchronous completion.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// HealthCheck performs a lightweight availability probe.
	HealthCheck(ctx context.Context) (*HealthStatus, error)

	// Name returns the provider's unique identifier.
	Name() string
}

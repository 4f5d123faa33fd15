package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubProvider is a minimal in-package test double; the full-featured mock
// lives in testutil/mocks but cannot be imported here without a cycle.
type stubProvider struct {
	name  string
	text  string
	err   error
	calls atomic.Int64
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &CompletionResponse{Provider: s.name, Text: s.text, Latency: time.Millisecond}, nil
}

func (s *stubProvider) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	if s.err != nil {
		return &HealthStatus{Healthy: false}, s.err
	}
	return &HealthStatus{Healthy: true}, nil
}

// ---------------------------------------------------------------------------
// Complete
// ---------------------------------------------------------------------------

func TestComparisonProviderReturnsPrimaryResult(t *testing.T) {
	primary := &stubProvider{name: "a", text: "primary says"}
	shadow := &stubProvider{name: "b", text: "shadow says"}
	p := NewComparisonProvider(primary, shadow, zap.NewNop())

	resp, err := p.Complete(context.Background(), &CompletionRequest{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "primary says", resp.Text)

	// Both sides ran.
	assert.Equal(t, int64(1), primary.calls.Load())
	assert.Equal(t, int64(1), shadow.calls.Load())
}

func TestComparisonProviderShadowFailureIsDropped(t *testing.T) {
	primary := &stubProvider{name: "a", text: "fine"}
	shadow := &stubProvider{name: "b", err: errors.New("shadow down")}
	p := NewComparisonProvider(primary, shadow, zap.NewNop())

	resp, err := p.Complete(context.Background(), &CompletionRequest{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "fine", resp.Text)
}

func TestComparisonProviderPrimaryFailurePropagates(t *testing.T) {
	primaryErr := &Error{Code: ErrUpstreamError, Message: "primary down"}
	primary := &stubProvider{name: "a", err: primaryErr}
	shadow := &stubProvider{name: "b", text: "irrelevant"}
	p := NewComparisonProvider(primary, shadow, zap.NewNop())

	_, err := p.Complete(context.Background(), &CompletionRequest{User: "hi"})
	require.Error(t, err)
	var le *Error
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrUpstreamError, le.Code)
}

// ---------------------------------------------------------------------------
// Name / HealthCheck
// ---------------------------------------------------------------------------

func TestComparisonProviderName(t *testing.T) {
	p := NewComparisonProvider(&stubProvider{name: "local"}, &stubProvider{name: "openai"}, nil)
	assert.Equal(t, "comparison(local,openai)", p.Name())
}

func TestComparisonProviderHealthChecksPrimaryOnly(t *testing.T) {
	primary := &stubProvider{name: "a"}
	shadow := &stubProvider{name: "b", err: errors.New("shadow down")}
	p := NewComparisonProvider(primary, shadow, nil)

	status, err := p.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
}

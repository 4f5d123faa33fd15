// Package mocks provides a mock completion provider for tests, supporting
// fixed responses, error injection, artificial delay, and call recording.
package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/BaSui01/voiceflow/llm"
)

// MockProvider is a scriptable llm.Provider.
type MockProvider struct {
	mu sync.Mutex

	response     string
	err          error
	completeFunc func(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error)

	delay     time.Duration
	failAfter int // fail every call after the Nth

	callCount int
	calls     []MockCall
}

// MockCall records one Complete invocation.
type MockCall struct {
	Request  *llm.CompletionRequest
	Response *llm.CompletionResponse
	Error    error
}

// NewMockProvider creates a provider that answers "SILENT" by default.
func NewMockProvider() *MockProvider {
	return &MockProvider{response: "SILENT"}
}

// WithResponse sets the fixed completion text.
func (m *MockProvider) WithResponse(response string) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = response
	return m
}

// WithError makes every call fail with err.
func (m *MockProvider) WithError(err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithDelay adds artificial latency to each call.
func (m *MockProvider) WithDelay(d time.Duration) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	return m
}

// WithFailAfter makes calls fail after the Nth successful one.
func (m *MockProvider) WithFailAfter(n int) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter = n
	return m
}

// WithCompleteFunc installs a custom handler, overriding fixed responses.
func (m *MockProvider) WithCompleteFunc(fn func(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error)) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeFunc = fn
	return m
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++

	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.delay):
		}
	}

	if m.failAfter > 0 && m.callCount > m.failAfter {
		err := errors.New("mock provider: configured to fail after N calls")
		m.calls = append(m.calls, MockCall{Request: req, Error: err})
		return nil, err
	}
	if m.err != nil {
		m.calls = append(m.calls, MockCall{Request: req, Error: m.err})
		return nil, m.err
	}
	if m.completeFunc != nil {
		resp, err := m.completeFunc(ctx, req)
		m.calls = append(m.calls, MockCall{Request: req, Response: resp, Error: err})
		return resp, err
	}

	resp := &llm.CompletionResponse{
		Provider: "mock",
		Model:    "mock-model",
		Text:     m.response,
		Latency:  m.delay,
	}
	m.calls = append(m.calls, MockCall{Request: req, Response: resp})
	return resp, nil
}

func (m *MockProvider) HealthCheck(context.Context) (*llm.HealthStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return &llm.HealthStatus{Healthy: false}, m.err
	}
	return &llm.HealthStatus{Healthy: true, Latency: time.Millisecond}, nil
}

// CallCount returns how many times Complete ran.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Calls returns a copy of the recorded calls.
func (m *MockProvider) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall{}, m.calls...)
}

// LastCall returns the most recent call, or nil.
func (m *MockProvider) LastCall() *MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	call := m.calls[len(m.calls)-1]
	return &call
}

// Reset clears recorded calls and error state.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.callCount = 0
	m.err = nil
}

// NewVocalizeProvider always answers with a VOCALIZE directive.
func NewVocalizeProvider(utterance string) *MockProvider {
	return NewMockProvider().WithResponse("VOCALIZE: " + utterance)
}

// NewSilentProvider always answers SILENT.
func NewSilentProvider() *MockProvider {
	return NewMockProvider()
}

// NewErrorProvider always fails with err.
func NewErrorProvider(err error) *MockProvider {
	return NewMockProvider().WithError(err)
}

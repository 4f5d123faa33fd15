package local

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/voiceflow/llm"
	"github.com/BaSui01/voiceflow/llm/providers"
)

func newTestProvider(baseURL string) *LocalProvider {
	cfg := providers.LocalConfig{}
	cfg.BaseURL = baseURL
	cfg.Model = "test-model"
	return NewLocalProvider(cfg, zap.NewNop())
}

func chatHandler(t *testing.T, text string, requests *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		require.Equal(t, "/api/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		_ = json.NewEncoder(w).Encode(chatResponse{
			Model:           req.Model,
			Message:         chatMessage{Role: "assistant", Content: text},
			Done:            true,
			PromptEvalCount: 42,
			EvalCount:       7,
		})
	}
}

// ---------------------------------------------------------------------------
// Complete
// ---------------------------------------------------------------------------

func TestLocalProviderComplete(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(chatHandler(t, "VOCALIZE: hi there", &requests))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	resp, err := p.Complete(context.Background(), &llm.CompletionRequest{
		System:    "sys",
		User:      "usr",
		MaxTokens: 80,
	})

	require.NoError(t, err)
	assert.Equal(t, "local", resp.Provider)
	assert.Equal(t, "VOCALIZE: hi there", resp.Text)
	assert.Equal(t, 42, resp.PromptTokens)
	assert.Equal(t, 7, resp.CompletionTokens)
	assert.Equal(t, AvailabilityAvailable, p.Availability())
}

func TestLocalProviderDefaults(t *testing.T) {
	p := NewLocalProvider(providers.LocalConfig{}, nil)
	assert.Equal(t, "local", p.Name())
	assert.Equal(t, AvailabilityUnknown, p.Availability())
}

// ---------------------------------------------------------------------------
// Availability cache
// ---------------------------------------------------------------------------

func TestLocalProviderDowngradesOnFailure(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)

	_, err := p.Complete(context.Background(), &llm.CompletionRequest{User: "x"})
	require.Error(t, err)
	assert.True(t, llm.IsUnavailable(err))
	assert.Equal(t, AvailabilityUnavailable, p.Availability())
	assert.Equal(t, int64(1), requests.Load())

	// Subsequent calls fail fast without touching the network.
	_, err = p.Complete(context.Background(), &llm.CompletionRequest{User: "y"})
	require.Error(t, err)
	assert.True(t, llm.IsUnavailable(err))
	assert.Equal(t, int64(1), requests.Load())
}

func TestLocalProviderDowngradesOnConnectionRefused(t *testing.T) {
	// A closed server yields a transport error.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	p := newTestProvider(addr)
	_, err := p.Complete(context.Background(), &llm.CompletionRequest{User: "x"})
	require.Error(t, err)
	assert.True(t, llm.IsUnavailable(err))
	assert.Equal(t, AvailabilityUnavailable, p.Availability())
}

func TestLocalProviderResetReprobes(t *testing.T) {
	var requests atomic.Int64
	fail := &atomic.Bool{}
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			requests.Add(1)
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		chatHandler(t, "back up", &requests)(w, r)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)

	_, err := p.Complete(context.Background(), &llm.CompletionRequest{User: "x"})
	require.Error(t, err)
	require.Equal(t, AvailabilityUnavailable, p.Availability())

	// Runtime restarted; only an explicit Reset clears the latch.
	fail.Store(false)
	p.Reset()
	assert.Equal(t, AvailabilityUnknown, p.Availability())

	resp, err := p.Complete(context.Background(), &llm.CompletionRequest{User: "x"})
	require.NoError(t, err)
	assert.Equal(t, "back up", resp.Text)
	assert.Equal(t, AvailabilityAvailable, p.Availability())
}

// ---------------------------------------------------------------------------
// HealthCheck
// ---------------------------------------------------------------------------

func TestLocalProviderHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	status, err := p.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Equal(t, AvailabilityAvailable, p.Availability())
}

func TestLocalProviderHealthCheckFailureDowngrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	status, err := p.HealthCheck(context.Background())
	require.Error(t, err)
	assert.False(t, status.Healthy)
	assert.Equal(t, AvailabilityUnavailable, p.Availability())
}

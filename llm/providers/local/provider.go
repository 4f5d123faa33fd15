// Package local implements the low-latency completion backend against an
// Ollama-compatible runtime on the same host.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/voiceflow/llm"
	"github.com/BaSui01/voiceflow/llm/providers"
)

// Availability is the cached tri-state of the local runtime. A failed call
// downgrades it to unavailable for subsequent calls until an explicit
// Reset, so the live path never pays repeated probe latency.
type Availability int32

const (
	AvailabilityUnknown Availability = iota
	AvailabilityAvailable
	AvailabilityUnavailable
)

func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "available"
	case AvailabilityUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// LocalProvider talks to an Ollama-compatible /api/chat endpoint.
type LocalProvider struct {
	cfg    providers.LocalConfig
	client *http.Client
	logger *zap.Logger

	availability atomic.Int32
}

// NewLocalProvider creates a local provider. Defaults: localhost Ollama,
// llama3.2, 15s timeout.
func NewLocalProvider(cfg providers.LocalConfig, logger *zap.Logger) *LocalProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.2"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With(zap.String("component", "local_provider")),
	}
}

func (p *LocalProvider) Name() string { return "local" }

// Availability returns the cached availability state.
func (p *LocalProvider) Availability() Availability {
	return Availability(p.availability.Load())
}

// Reset clears the cached availability back to unknown.
func (p *LocalProvider) Reset() {
	p.availability.Store(int32(AvailabilityUnknown))
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	Stream    bool          `json:"stream"`
	KeepAlive string        `json:"keep_alive,omitempty"`
	Options   chatOptions   `json:"options,omitempty"`
}

type chatOptions struct {
	Temperature float32 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`

	PromptEvalCount int `json:"prompt_eval_count,omitempty"`
	EvalCount       int `json:"eval_count,omitempty"`
}

// Complete issues one non-streaming chat completion. When the cached
// availability is unavailable it fails fast without touching the network.
func (p *LocalProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if p.Availability() == AvailabilityUnavailable {
		return nil, &llm.Error{
			Code:     llm.ErrProviderUnavailable,
			Message:  "local provider marked unavailable; call Reset to re-probe",
			Provider: p.Name(),
		}
	}

	start := time.Now()
	body, err := json.Marshal(chatRequest{
		Model: p.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Stream:    false,
		KeepAlive: p.cfg.KeepAlive,
		Options: chatOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	})
	if err != nil {
		return nil, &llm.Error{Code: llm.ErrInvalidRequest, Message: fmt.Sprintf("marshal request: %v", err), Provider: p.Name()}
	}

	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") + "/api/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &llm.Error{Code: llm.ErrInvalidRequest, Message: fmt.Sprintf("build request: %v", err), Provider: p.Name()}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		p.markUnavailable(err)
		return nil, &llm.Error{
			Code:     llm.ErrProviderUnavailable,
			Message:  fmt.Sprintf("local completion failed: %v", err),
			Provider: p.Name(),
		}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		p.markUnavailable(fmt.Errorf("status %d", httpResp.StatusCode))
		return nil, &llm.Error{
			Code:       llm.ErrProviderUnavailable,
			Message:    fmt.Sprintf("local completion failed: status=%d body=%s", httpResp.StatusCode, strings.TrimSpace(string(msg))),
			HTTPStatus: httpResp.StatusCode,
			Provider:   p.Name(),
		}
	}

	var resp chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		p.markUnavailable(err)
		return nil, &llm.Error{
			Code:     llm.ErrUpstreamError,
			Message:  fmt.Sprintf("decode local response: %v", err),
			Provider: p.Name(),
		}
	}

	p.availability.Store(int32(AvailabilityAvailable))

	return &llm.CompletionResponse{
		Provider:         p.Name(),
		Model:            resp.Model,
		Text:             resp.Message.Content,
		PromptTokens:     resp.PromptEvalCount,
		CompletionTokens: resp.EvalCount,
		Latency:          time.Since(start),
	}, nil
}

// HealthCheck probes the runtime's model list and refreshes the cached
// availability either way.
func (p *LocalProvider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	start := time.Now()
	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") + "/api/tags"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &llm.HealthStatus{Healthy: false, Latency: time.Since(start)}, err
	}

	httpResp, err := p.client.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		p.markUnavailable(err)
		return &llm.HealthStatus{Healthy: false, Latency: latency}, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		p.markUnavailable(fmt.Errorf("status %d", httpResp.StatusCode))
		return &llm.HealthStatus{Healthy: false, Latency: latency}, fmt.Errorf("local health check failed: status=%d", httpResp.StatusCode)
	}

	p.availability.Store(int32(AvailabilityAvailable))
	return &llm.HealthStatus{Healthy: true, Latency: latency}, nil
}

func (p *LocalProvider) markUnavailable(cause error) {
	prev := Availability(p.availability.Swap(int32(AvailabilityUnavailable)))
	if prev != AvailabilityUnavailable {
		p.logger.Warn("local provider downgraded to unavailable",
			zap.String("previous", prev.String()),
			zap.Error(cause),
		)
	}
}

// Package openai implements the remote completion backend against an
// OpenAI-compatible chat completions API. Failures here are call-scoped:
// transient errors are retried with backoff and never latch the provider
// into an unavailable state.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/voiceflow/llm"
	"github.com/BaSui01/voiceflow/llm/providers"
	"github.com/BaSui01/voiceflow/llm/retry"
)

// OpenAIProvider talks to {base}/v1/chat/completions.
type OpenAIProvider struct {
	cfg     providers.OpenAIConfig
	client  *http.Client
	retryer retry.Retryer
	logger  *zap.Logger
}

// NewOpenAIProvider creates a remote provider. Defaults: api.openai.com,
// gpt-4o-mini, 30s timeout, DefaultRetryPolicy limited to retryable errors.
func NewOpenAIProvider(cfg providers.OpenAIConfig, logger *zap.Logger) *OpenAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	policy := retry.DefaultRetryPolicy()
	policy.ShouldRetry = llm.IsRetryable

	return &OpenAIProvider{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		retryer: retry.NewBackoffRetryer(policy, logger),
		logger:  logger.With(zap.String("component", "openai_provider")),
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete issues one chat completion with retries on transient failures.
func (p *OpenAIProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	start := time.Now()

	var resp *llm.CompletionResponse
	err := p.retryer.Do(ctx, func() error {
		var callErr error
		resp, callErr = p.completeOnce(ctx, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	resp.Latency = time.Since(start)
	return resp, nil
}

func (p *OpenAIProvider) completeOnce(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	body, err := json.Marshal(chatRequest{
		Model: p.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, &llm.Error{Code: llm.ErrInvalidRequest, Message: fmt.Sprintf("marshal request: %v", err), Provider: p.Name()}
	}

	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &llm.Error{Code: llm.ErrInvalidRequest, Message: fmt.Sprintf("build request: %v", err), Provider: p.Name()}
	}
	p.buildHeaders(httpReq)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		code := llm.ErrUpstreamError
		if errors.Is(err, context.DeadlineExceeded) {
			code = llm.ErrUpstreamTimeout
		}
		return nil, &llm.Error{
			Code:      code,
			Message:   fmt.Sprintf("openai completion failed: %v", err),
			Retryable: true,
			Provider:  p.Name(),
		}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, p.mapHTTPError(httpResp)
	}

	var resp chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, &llm.Error{Code: llm.ErrUpstreamError, Message: fmt.Sprintf("decode openai response: %v", err), Retryable: true, Provider: p.Name()}
	}
	if len(resp.Choices) == 0 {
		return nil, &llm.Error{Code: llm.ErrUpstreamError, Message: "openai response has no choices", Provider: p.Name()}
	}

	return &llm.CompletionResponse{
		Provider:         p.Name(),
		Model:            resp.Model,
		Text:             resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (p *OpenAIProvider) buildHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	if p.cfg.Organization != "" {
		req.Header.Set("OpenAI-Organization", p.cfg.Organization)
	}
}

func (p *OpenAIProvider) mapHTTPError(resp *http.Response) *llm.Error {
	var apiErr errorResponse
	msg := ""
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if json.Unmarshal(raw, &apiErr) == nil {
		msg = apiErr.Error.Message
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &llm.Error{Code: llm.ErrRateLimited, Message: msg, HTTPStatus: resp.StatusCode, Retryable: true, Provider: p.Name()}
	case resp.StatusCode >= 500:
		return &llm.Error{Code: llm.ErrUpstreamError, Message: msg, HTTPStatus: resp.StatusCode, Retryable: true, Provider: p.Name()}
	default:
		return &llm.Error{Code: llm.ErrInvalidRequest, Message: msg, HTTPStatus: resp.StatusCode, Provider: p.Name()}
	}
}

// HealthCheck probes the models endpoint.
func (p *OpenAIProvider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	start := time.Now()
	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") + "/v1/models"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &llm.HealthStatus{Healthy: false, Latency: time.Since(start)}, err
	}
	p.buildHeaders(httpReq)

	httpResp, err := p.client.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		return &llm.HealthStatus{Healthy: false, Latency: latency}, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return &llm.HealthStatus{Healthy: false, Latency: latency}, fmt.Errorf("openai health check failed: status=%d", httpResp.StatusCode)
	}
	return &llm.HealthStatus{Healthy: true, Latency: latency}, nil
}

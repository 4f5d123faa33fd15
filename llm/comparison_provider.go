package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ComparisonProvider fans a completion out to a primary and a shadow
// provider in parallel and returns the primary's result. The shadow result
// is only logged, for offline quality comparison. This variant is not meant
// for the latency-sensitive live path.
type ComparisonProvider struct {
	primary Provider
	shadow  Provider
	logger  *zap.Logger
}

// NewComparisonProvider creates a comparison provider.
func NewComparisonProvider(primary, shadow Provider, logger *zap.Logger) *ComparisonProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComparisonProvider{
		primary: primary,
		shadow:  shadow,
		logger:  logger.With(zap.String("component", "comparison_provider")),
	}
}

func (p *ComparisonProvider) Name() string {
	return fmt.Sprintf("comparison(%s,%s)", p.primary.Name(), p.shadow.Name())
}

// Complete runs both providers concurrently. The shadow call never affects
// the outcome: its error is logged and dropped.
func (p *ComparisonProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	var (
		primaryResp *CompletionResponse
		shadowResp  *CompletionResponse
		primaryErr  error
		shadowErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		primaryResp, primaryErr = p.primary.Complete(gctx, req)
		return nil
	})
	g.Go(func() error {
		shadowResp, shadowErr = p.shadow.Complete(gctx, req)
		return nil
	})
	_ = g.Wait()

	switch {
	case shadowErr != nil:
		p.logger.Warn("shadow completion failed",
			zap.String("shadow", p.shadow.Name()),
			zap.Error(shadowErr),
		)
	case primaryErr == nil && shadowResp.Text != primaryResp.Text:
		p.logger.Info("shadow completion diverged",
			zap.String("primary", p.primary.Name()),
			zap.String("shadow", p.shadow.Name()),
			zap.String("primary_text", primaryResp.Text),
			zap.String("shadow_text", shadowResp.Text),
			zap.Duration("primary_latency", primaryResp.Latency),
			zap.Duration("shadow_latency", shadowResp.Latency),
		)
	}

	return primaryResp, primaryErr
}

// HealthCheck probes the primary only; the shadow is best-effort by design.
func (p *ComparisonProvider) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	return p.primary.HealthCheck(ctx)
}

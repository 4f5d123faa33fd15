package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/BaSui01/voiceflow/llm"
)

// Collector registers and records the narrator service metrics.
type Collector struct {
	decisionsTotal   *prometheus.CounterVec
	ingestDuration   prometheus.Histogram
	providerRequests *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	bufferSize       prometheus.Gauge
	sessionsTotal    prometheus.Counter

	logger *zap.Logger
}

// NewCollector creates a collector registered on reg.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.decisionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Total number of ingest decisions",
		},
		[]string{"outcome"},
	)

	c.ingestDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Wall time of ingest calls in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
	)

	c.providerRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Total number of completion requests",
		},
		[]string{"provider", "status"},
	)

	c.providerDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Completion request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)

	c.bufferSize = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buffer_size",
			Help:      "Snippets currently retained in the context buffer",
		},
	)

	c.sessionsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of narrator sessions started",
		},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

// RecordDecision records one ingest outcome and its wall time.
func (c *Collector) RecordDecision(outcome string, duration time.Duration) {
	c.decisionsTotal.WithLabelValues(outcome).Inc()
	c.ingestDuration.Observe(duration.Seconds())
}

// RecordProviderRequest records one completion call.
func (c *Collector) RecordProviderRequest(provider, status string, duration time.Duration) {
	c.providerRequests.WithLabelValues(provider, status).Inc()
	c.providerDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// SetBufferSize records the current buffer occupancy.
func (c *Collector) SetBufferSize(n int) {
	c.bufferSize.Set(float64(n))
}

// RecordSessionStart counts a new narrator session.
func (c *Collector) RecordSessionStart() {
	c.sessionsTotal.Inc()
}

// InstrumentProvider wraps a completion provider so every call is recorded
// on the collector.
func InstrumentProvider(p llm.Provider, c *Collector) llm.Provider {
	return &instrumentedProvider{inner: p, collector: c}
}

type instrumentedProvider struct {
	inner     llm.Provider
	collector *Collector
}

func (ip *instrumentedProvider) Name() string { return ip.inner.Name() }

func (ip *instrumentedProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	start := time.Now()
	resp, err := ip.inner.Complete(ctx, req)
	status := "ok"
	if err != nil {
		status = "error"
		if llm.IsUnavailable(err) {
			status = "unavailable"
		}
	}
	ip.collector.RecordProviderRequest(ip.inner.Name(), status, time.Since(start))
	return resp, err
}

func (ip *instrumentedProvider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	return ip.inner.HealthCheck(ctx)
}

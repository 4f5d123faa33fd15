package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/voiceflow/llm"
	"github.com/BaSui01/voiceflow/testutil/mocks"
)

func TestCollectorRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("test", reg, zap.NewNop())

	c.RecordDecision("vocalize", 10*time.Millisecond)
	c.RecordDecision("silent", time.Millisecond)
	c.RecordDecision("silent", time.Millisecond)
	c.SetBufferSize(7)
	c.RecordSessionStart()

	assert.Equal(t, float64(1), testutil.ToFloat64(c.decisionsTotal.WithLabelValues("vocalize")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.decisionsTotal.WithLabelValues("silent")))
	assert.Equal(t, float64(7), testutil.ToFloat64(c.bufferSize))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.sessionsTotal))
}

func TestInstrumentProvider(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("test", reg, zap.NewNop())

	ok := InstrumentProvider(mocks.NewSilentProvider(), c)
	_, err := ok.Complete(context.Background(), &llm.CompletionRequest{User: "x"})
	require.NoError(t, err)
	assert.Equal(t, "mock", ok.Name())
	assert.Equal(t, float64(1), testutil.ToFloat64(c.providerRequests.WithLabelValues("mock", "ok")))

	failing := InstrumentProvider(mocks.NewErrorProvider(errors.New("boom")), c)
	_, err = failing.Complete(context.Background(), &llm.CompletionRequest{User: "x"})
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(c.providerRequests.WithLabelValues("mock", "error")))

	unavailable := InstrumentProvider(
		mocks.NewErrorProvider(&llm.Error{Code: llm.ErrProviderUnavailable, Message: "down"}), c)
	_, err = unavailable.Complete(context.Background(), &llm.CompletionRequest{User: "x"})
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(c.providerRequests.WithLabelValues("mock", "unavailable")))
}

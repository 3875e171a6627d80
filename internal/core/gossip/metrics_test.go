package gossip

import (
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-gossip/internal/core/gossip/wire"
)

func TestDecodeErrorReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: x", ErrLimitExceeded), ReasonLimitExceeded},
		{fmt.Errorf("%w: index 3: %w", ErrBatchRecord, ErrMalformed), ReasonMalformed},
		{wire.ErrMalformed, ReasonMalformed},
		{ErrTrailingBytes, ReasonTrailingBytes},
		{wire.ErrTooManyNodes, ReasonTooManyNodes},
		{errors.New("boom"), ReasonOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DecodeErrorReason(tt.err), tt.err.Error())
	}
}

func TestMetrics_Registered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.ObserveEncoded(3)
	m.ObserveEncoded(0)
	m.ObserveDecodeError(ErrMalformed)
	m.ObserveDecodeError(nil)
	m.ObserveVerdict(true)
	m.ObserveVerdict(false)
	m.ObserveVerdict(false)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Encoded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeErrors.WithLabelValues(ReasonMalformed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Filtered.WithLabelValues(VerdictRejected)))

	n, err := testutil.GatherAndCount(reg, "gossip_encoded_total", "gossip_decode_errors_total", "gossip_filtered_total")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveEncoded(1)
		m.ObserveDecodeError(ErrMalformed)
		m.ObserveVerdict(true)
	})
}

func TestMetrics_Unregistered(t *testing.T) {
	m, err := NewMetrics(nil)
	require.NoError(t, err)
	m.ObserveEncoded(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Encoded))
}

func TestMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewMetrics(reg)
	require.NoError(t, err)

	var b *Metrics
	require.NotPanics(t, func() {
		b, err = NewMetrics(reg)
	})
	require.NoError(t, err)

	a.ObserveEncoded(2)
	b.ObserveEncoded(3)
	b.ObserveVerdict(true)

	assert.Equal(t, 5.0, testutil.ToFloat64(a.Encoded))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Filtered.WithLabelValues(VerdictAccepted)))
}

func TestMetrics_ConflictingRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "encoded_total",
		Help:      "conflicting definition",
	}))

	m, err := NewMetrics(reg)
	assert.Error(t, err)
	assert.Nil(t, m)
}

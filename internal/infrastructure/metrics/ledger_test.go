package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerMetrics_Contadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.MovementRecorded("IN")
	m.MovementRecorded("IN")
	m.MovementRecorded("OUT")
	m.MovementRejected("validation")
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)
	m.ObserveRequest("GET", "/api/products", 200, 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.recorded.WithLabelValues("IN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recorded.WithLabelValues("OUT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("validation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cache.WithLabelValues("miss")))

	n, err := testutil.GatherAndCount(reg, "http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLedgerMetrics_ReceptorNil(t *testing.T) {
	var m *LedgerMetrics
	assert.NotPanics(t, func() {
		m.MovementRecorded("IN")
		m.MovementRejected("x")
		m.CacheLookup(true)
		m.ObserveRequest("GET", "/", 200, time.Second)
	})
	assert.NotPanics(t, func() { NewLedgerMetrics(nil).MovementRecorded("IN") })
}

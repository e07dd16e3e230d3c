package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveAcceptance(OutcomeAccepted)
	m.ObserveAcceptance(OutcomeAccepted)
	m.ObserveAcceptance(OutcomeAlreadyAssigned)
	m.OrderCreated()
	m.BidPlaced()
	m.StatusAdvanced("in_progress")
	m.ObserveHTTP(http.MethodGet, "/health", http.StatusOK, 5*time.Millisecond)
	m.ObserveFeed("driver", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.acceptances.WithLabelValues(OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.acceptances.WithLabelValues(OutcomeAlreadyAssigned)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bidsPlaced))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusAdvances.WithLabelValues("in_progress")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/health", "200")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveAcceptance(OutcomeAccepted)
		m.ObserveHTTP(http.MethodGet, "/", http.StatusOK, time.Second)
		m.ObserveFeed("driver", 1)
		m.OrderCreated()
		m.BidPlaced()
		m.StatusAdvanced("completed")
	})
}

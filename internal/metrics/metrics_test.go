package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Transition("design", "ready")
	m.Transition("design", "ready")
	m.Rejection("illegal_transition")
	m.OrderCreated()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("design", "ready")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejections.WithLabelValues("illegal_transition")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersCreated))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Transition("a", "b")
		m.Rejection("x")
		m.OrderCreated()
	})
}

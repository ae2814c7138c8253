// Package metrics defines the workflow's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the counters the workflow services update.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Transitions   *prometheus.CounterVec
	Rejections    *prometheus.CounterVec
	OrdersCreated prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderdesk_transitions_total",
			Help: "Order status transitions, by source and target status.",
		}, []string{"from", "to"}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orderdesk_rejections_total",
			Help: "Rejected workflow operations, by error kind.",
		}, []string{"kind"}),
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orderdesk_orders_created_total",
			Help: "Orders created.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.Rejections, m.OrdersCreated)
	}
	return m
}

// Transition counts one status change.
func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(from, to).Inc()
}

// Rejection counts one rejected operation.
func (m *Metrics) Rejection(kind string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(kind).Inc()
}

// OrderCreated counts one created order.
func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// FlowMetrics counts intents handled by the flow controller and the
// reconciliation outcome of finished routes.
type FlowMetrics struct {
	intents     *prometheus.CounterVec
	orders      prometheus.Counter
	gpsSamples  prometheus.Counter
	routesEnded *prometheus.CounterVec
	discrepancy prometheus.Histogram
}

// NewFlowMetrics registers the flow metrics on the provided registerer.
func NewFlowMetrics(reg prometheus.Registerer) *FlowMetrics {
	if reg == nil {
		return &FlowMetrics{}
	}
	intents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flow_intents_total",
		Help: "Flow intents by name and outcome.",
	}, []string{"intent", "outcome"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flow_orders_committed_total",
		Help: "Orders committed.",
	})
	gpsSamples := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "flow_gps_samples_total",
		Help: "GPS samples applied to active routes.",
	})
	routesEnded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flow_routes_ended_total",
		Help: "Routes ended, by discrepancy severity.",
	}, []string{"severity"})
	discrepancy := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "flow_route_discrepancy_km",
		Help:    "Absolute odometer vs GPS distance difference at route end.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 25},
	})
	reg.MustRegister(intents, orders, gpsSamples, routesEnded, discrepancy)
	return &FlowMetrics{
		intents:     intents,
		orders:      orders,
		gpsSamples:  gpsSamples,
		routesEnded: routesEnded,
		discrepancy: discrepancy,
	}
}

// ObserveIntent counts one intent. outcome is "accepted" or an error code.
func (m *FlowMetrics) ObserveIntent(intent, outcome string) {
	if m == nil || m.intents == nil {
		return
	}
	m.intents.WithLabelValues(normalizeLabel(intent), normalizeLabel(outcome)).Inc()
}

func (m *FlowMetrics) IncOrders() {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.Inc()
}

func (m *FlowMetrics) IncGPSSamples() {
	if m == nil || m.gpsSamples == nil {
		return
	}
	m.gpsSamples.Inc()
}

// ObserveRouteEnd records the discrepancy of a route that just ended.
func (m *FlowMetrics) ObserveRouteEnd(severity string, discrepancyKm float64) {
	if m == nil || m.routesEnded == nil {
		return
	}
	m.routesEnded.WithLabelValues(normalizeLabel(severity)).Inc()
	m.discrepancy.Observe(discrepancyKm)
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

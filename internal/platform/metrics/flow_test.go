package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestFlowMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFlowMetrics(reg)

	m.ObserveIntent("submit_order", "accepted")
	m.ObserveIntent("submit_order", "VALIDATION_ERROR")
	m.ObserveIntent("submit_order", "accepted")
	m.IncOrders()
	m.IncGPSSamples()
	m.IncGPSSamples()
	m.ObserveRouteEnd("minor", 0.6)

	if got := testutil.ToFloat64(m.intents.WithLabelValues("submit_order", "accepted")); got != 2 {
		t.Fatalf("accepted intents = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.intents.WithLabelValues("submit_order", "VALIDATION_ERROR")); got != 1 {
		t.Fatalf("rejected intents = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.orders); got != 1 {
		t.Fatalf("orders = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.gpsSamples); got != 2 {
		t.Fatalf("gps samples = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.routesEnded.WithLabelValues("minor")); got != 1 {
		t.Fatalf("routes ended = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.discrepancy); got != 1 {
		t.Fatalf("discrepancy series = %d, want 1", got)
	}
}

func TestFlowMetricsNilSafe(t *testing.T) {
	var m *FlowMetrics
	m.ObserveIntent("x", "accepted")
	m.IncOrders()
	m.IncGPSSamples()
	m.ObserveRouteEnd("none", 0)

	NewFlowMetrics(nil).IncOrders()
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("POST", "/api/v1/orders", 201, 15*time.Millisecond)
	m.Observe("POST", "/api/v1/orders", 422, 3*time.Millisecond)
	m.Observe("GET", "", 404, time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST", "/api/v1/orders", "201")); got != 1 {
		t.Fatalf("created = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "unknown", "404")); got != 1 {
		t.Fatalf("unmatched = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.duration); n != 2 {
		t.Fatalf("duration series = %d, want 2", n)
	}
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/health", 200, time.Millisecond)
	NewHTTPMetrics(nil).Observe("GET", "/health", 200, time.Millisecond)
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveReservation("ok")
	m.ObserveReservation("conflict")
	m.ObserveReservation("conflict")
	m.ObserveBookingCreated("")
	m.ObserveBookingCreated("Nail Art")
	m.ObserveTransition("pending", "confirmed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reservations.WithLabelValues("conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookings.WithLabelValues("universal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("pending", "confirmed")))
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/api/health", 200, 0.01)
	m.ObserveRequest("GET", "", 404, 0.01)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetricsNilSafe(t *testing.T) {
	var b *BookingMetrics
	b.ObserveReservation("ok")
	b.ObserveBookingCreated("Pose Gel")
	b.ObserveTransition("pending", "cancelled")

	var h *HTTPMetrics
	h.ObserveRequest("GET", "/", 200, 0.1)
}

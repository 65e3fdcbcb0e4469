package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the slot and booking workflow.
type BookingMetrics struct {
	reservations *prometheus.CounterVec
	bookings     *prometheus.CounterVec
	transitions  *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ambeauty",
			Subsystem: "slots",
			Name:      "reservations_total",
			Help:      "Slot reservation attempts by outcome",
		}, []string{"outcome"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ambeauty",
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Bookings created by service",
		}, []string{"service"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ambeauty",
			Subsystem: "bookings",
			Name:      "status_transitions_total",
			Help:      "Booking status transitions",
		}, []string{"from", "to"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.reservations, m.bookings, m.transitions)
	return m
}

// ObserveReservation records a reserve outcome: ok, conflict, not_found or error.
func (m *BookingMetrics) ObserveReservation(outcome string) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveBookingCreated(service string) {
	if m == nil {
		return
	}
	if service == "" {
		service = "universal"
	}
	m.bookings.WithLabelValues(service).Inc()
}

func (m *BookingMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

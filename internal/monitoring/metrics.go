package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	bookingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_duration_seconds",
			Help:    "End-to-end duration of Book calls",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"outcome"},
	)

	reserveConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seat_reserve_conflicts_total",
			Help: "Optimistic-lock conflicts observed while reserving seats",
		},
	)

	reserveAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seat_reserve_attempts",
			Help:    "CAS attempts needed per successful reservation",
			Buckets: prometheus.LinearBuckets(1, 1, 6),
		},
	)

	seatsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seats_booked_total",
			Help: "Seats committed across confirmed bookings",
		},
	)

	analyticsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_events_dropped_total",
			Help: "Analytics events dropped because the sink was full or down",
		},
	)
)

func ObserveBooking(outcome string, elapsed time.Duration) {
	bookingsTotal.WithLabelValues(outcome).Inc()
	bookingDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func IncReserveConflict() { reserveConflicts.Inc() }

func ObserveReserveAttempts(n int) { reserveAttempts.Observe(float64(n)) }

func AddSeatsBooked(n int) { seatsBooked.Add(float64(n)) }

func IncAnalyticsDropped() { analyticsDropped.Inc() }

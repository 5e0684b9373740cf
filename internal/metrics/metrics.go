package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "consultly",
			Name:      "bookings_created_total",
			Help:      "Bookings created through the public API.",
		},
	)

	syncAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "consultly",
			Name:      "sync_attempts_total",
			Help:      "External sync attempts by system and outcome.",
		},
		[]string{"system", "outcome"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "consultly",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		},
		[]string{"route", "status"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated, syncAttempts, httpRequests)
	})
}

// IncBookingCreated counts a successfully created booking.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncSyncAttempt counts one adapter attempt with its outcome label.
func IncSyncAttempt(system, outcome string) {
	syncAttempts.WithLabelValues(system, outcome).Inc()
}

// IncHTTP counts a finished HTTP request.
func IncHTTP(route, status string) {
	httpRequests.WithLabelValues(route, status).Inc()
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helmsman",
			Name:      "reservation_created_total",
			Help:      "Count of reservations created by status.",
		},
		[]string{"status"},
	)

	validationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helmsman",
			Name:      "validation_total",
			Help:      "Count of validation passes by outcome.",
		},
		[]string{"outcome"},
	)

	conflictsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helmsman",
			Name:      "conflict_detected_total",
			Help:      "Count of booking conflicts detected by severity.",
		},
		[]string{"severity"},
	)

	suggestionsServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helmsman",
			Name:      "suggestion_served_total",
			Help:      "Count of alternatives served by strategy.",
		},
		[]string{"strategy"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helmsman",
			Name:      "http_requests_total",
			Help:      "Count of HTTP API requests by handler.",
		},
		[]string{"handler"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationCreated, validationRuns, conflictsDetected, suggestionsServed, httpRequests)
	})
}

func IncReservationCreated(status string) {
	reservationCreated.WithLabelValues(status).Inc()
}

func IncValidation(outcome string) {
	validationRuns.WithLabelValues(outcome).Inc()
}

func IncConflictDetected(severity string) {
	conflictsDetected.WithLabelValues(severity).Inc()
}

func IncSuggestionServed(strategy string) {
	suggestionsServed.WithLabelValues(strategy).Inc()
}

func IncHTTP(handler string) {
	httpRequests.WithLabelValues(handler).Inc()
}

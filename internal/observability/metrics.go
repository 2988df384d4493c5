// Package observability registers the service's prometheus metrics.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitchekk",
		Subsystem: "persistence",
		Name:      "last_workout_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent workout persisted to Postgres.",
	})
	orderPlacedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitchekk",
		Subsystem: "persistence",
		Name:      "last_order_placed_timestamp_seconds",
		Help:      "Unix timestamp of the most recent order committed to Postgres.",
	})
	requestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitchekk",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests handled, labeled by method and status class.",
	}, []string{"method", "status"})
)

func init() {
	prometheus.MustRegister(workoutPersistGauge, orderPlacedGauge, requestCounter)
}

// RecordWorkoutPersisted updates the workout watermark gauge.
func RecordWorkoutPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	workoutPersistGauge.Set(float64(ts.Unix()))
}

// RecordOrderPlaced updates the order watermark gauge.
func RecordOrderPlaced(ts time.Time) {
	if ts.IsZero() {
		return
	}
	orderPlacedGauge.Set(float64(ts.Unix()))
}

// RecordRequest counts one handled HTTP request.
func RecordRequest(method, status string) {
	requestCounter.WithLabelValues(method, status).Inc()
}

package upload

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scribe_upload_attempts_total",
		Help: "Upload attempts by outcome (completed, failed, rejected)",
	}, []string{"outcome"})

	stepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scribe_upload_step_duration_seconds",
		Help:    "Duration of each upload workflow step",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"step"})
)

// AttemptsTotal exposes the attempt counter for the given outcome.
func AttemptsTotal(outcome string) prometheus.Counter {
	return attemptsTotal.WithLabelValues(outcome)
}

func recordAttempt(outcome string) {
	attemptsTotal.WithLabelValues(outcome).Inc()
}

func observeStep(step Step, seconds float64) {
	stepDuration.WithLabelValues(string(step)).Observe(seconds)
}

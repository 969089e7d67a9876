package validator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	validationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feedcheck_validation_duration_seconds",
			Help:    "Duration of one feed validation run in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	validationRecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedcheck_validation_records_total",
			Help: "Total number of feed records evaluated",
		},
	)

	validationIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedcheck_validation_issues_total",
			Help: "Total number of validation issues emitted",
		},
		[]string{"severity"},
	)
)

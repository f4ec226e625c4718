// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IntakeSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Total number of resume submissions by outcome",
		},
		[]string{"outcome"},
	)

	IntakeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "intake_duration_seconds",
			Help: "Duration of the full intake chain in seconds",
		},
	)

	AnalyzerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_requests_total",
			Help: "Total number of analyzer calls by result",
		},
		[]string{"result"},
	)

	AnalyzerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "analyzer_request_duration_seconds",
			Help: "Duration of analyzer scoring calls in seconds",
		},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_status_transitions_total",
			Help: "Total number of single-record status transitions",
		},
		[]string{"status"},
	)

	BulkRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_bulk_rejections_total",
			Help: "Total number of applications rejected by threshold passes",
		},
	)
)

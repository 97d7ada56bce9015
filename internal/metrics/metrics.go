package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChecksEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftwatch_checks_enqueued_total",
		Help: "Total number of drift checks placed on the processing queue.",
	})

	ChecksProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftwatch_checks_processed_total",
		Help: "Total number of drift checks fully processed by the engine.",
	})

	ChecksDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftwatch_checks_dropped_total",
		Help: "Total number of drift checks rejected due to a full queue.",
	})

	ChecksFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "driftwatch_checks_failed_total",
		Help: "Total number of drift checks that failed validation or execution.",
	})

	DriftDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driftwatch_drift_detected_total",
		Help: "Total number of drift events emitted, labelled by feature and test.",
	}, []string{"feature", "test"})

	FeaturesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "driftwatch_features_skipped_total",
		Help: "Total number of features skipped for insufficient data, labelled by feature.",
	}, []string{"feature"})

	CheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "driftwatch_check_duration_ms",
		Help:    "End-to-end drift check latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "driftwatch_queue_utilization_ratio",
		Help: "Current check queue utilization (0–1).",
	})
)

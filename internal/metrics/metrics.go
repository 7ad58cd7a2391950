package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReadingsProcessed counts telemetry samples accepted by the pipeline.
	ReadingsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readings_processed_total",
			Help: "Total number of sensor readings processed",
		},
		[]string{"gateway_id"},
	)

	// ReadingsDropped counts payloads discarded before analysis.
	ReadingsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readings_dropped_total",
			Help: "Total number of payloads dropped before analysis",
		},
		[]string{"reason"},
	)

	// FindingsDetected counts analyzer findings by analyzer.
	FindingsDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "findings_detected_total",
			Help: "Total number of findings produced by the analyzers",
		},
		[]string{"analyzer"},
	)

	// AlertsEmitted counts alerts that survived deduplication.
	AlertsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_emitted_total",
			Help: "Total number of alerts emitted after deduplication",
		},
		[]string{"alert_type", "severity"},
	)

	// AlertsSuppressed counts candidates dropped inside a cooldown window.
	AlertsSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_suppressed_total",
			Help: "Total number of alert candidates suppressed by the cooldown",
		},
	)

	// AlertStoreFailures counts failed batch inserts.
	AlertStoreFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alert_store_failures_total",
			Help: "Total number of failed alert batch inserts",
		},
	)

	// AnalysisDuration observes per-reading analysis latency.
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_duration_seconds",
			Help:    "Time spent analyzing one reading end to end",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)
)

// Package metrics provides Prometheus metrics for the Tulsi service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IntakeOutcomesTotal tracks intake pipeline outcomes by result
	IntakeOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tulsi",
			Subsystem: "intake",
			Name:      "outcomes_total",
			Help:      "Total number of intake pipeline outcomes by result",
		},
		[]string{"result", "source"},
	)

	// IntakeRejectionsTotal tracks rejections by failing field or rule
	IntakeRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tulsi",
			Subsystem: "intake",
			Name:      "rejections_total",
			Help:      "Total number of intake rejections by field",
		},
		[]string{"field"},
	)

	// ImportsTotal tracks bulk imports by file format and status
	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tulsi",
			Subsystem: "import",
			Name:      "files_total",
			Help:      "Total number of bulk import files by format and status",
		},
		[]string{"format", "status"},
	)

	// ImportRowsTotal tracks total rows processed by bulk imports
	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tulsi",
			Subsystem: "import",
			Name:      "rows_total",
			Help:      "Total number of bulk import rows by outcome",
		},
		[]string{"outcome"},
	)

	// ImportDuration tracks bulk import processing duration in seconds
	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tulsi",
			Subsystem: "import",
			Name:      "duration_seconds",
			Help:      "Duration of bulk import processing in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"format"},
	)

	// NakshatraResolutionsTotal tracks category resolver outcomes
	NakshatraResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tulsi",
			Subsystem: "nakshatra",
			Name:      "resolutions_total",
			Help:      "Total number of nakshatra label resolutions by outcome",
		},
		[]string{"outcome"},
	)
)

package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Optimizer Metrics ──────────────────────────────────────────────────────

// studiesTotal counts studies executed through the API, by objective.
var studiesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "gmab",
	Subsystem: "api",
	Name:      "studies_total",
	Help:      "Total studies executed through the API.",
}, []string{"function"})

// evaluationsTotal counts objective evaluations performed by API studies.
var evaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "gmab",
	Subsystem: "api",
	Name:      "evaluations_total",
	Help:      "Total objective evaluations performed by API studies.",
})

// studyDuration observes wall-clock run time per study.
var studyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "gmab",
	Subsystem: "api",
	Name:      "study_duration_seconds",
	Help:      "Wall-clock duration of one study execution.",
	Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
})

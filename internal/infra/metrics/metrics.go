// Package metrics provides Prometheus metrics for Moodlift — counters and
// histograms for scheduling, aggregation, recorded activity, and the
// coach text-generation collaborator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Scheduling ─────────────────────────────────────────────────────────────

// SchedulesGenerated counts schedule generations by version.
// With the cache working correctly this grows at most once per user per day.
var SchedulesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "moodlift",
	Name:      "schedules_generated_total",
	Help:      "Total daily schedules generated.",
}, []string{"version"})

// ScheduleCacheHits counts schedule requests served from the durable cache.
var ScheduleCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "moodlift",
	Name:      "schedule_cache_hits_total",
	Help:      "Schedule requests served from the persisted daily schedule.",
})

// ─── Aggregation ────────────────────────────────────────────────────────────

// Aggregations counts full statistics aggregation passes.
var Aggregations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "moodlift",
	Name:      "aggregations_total",
	Help:      "Total statistics aggregation passes.",
})

// AggregationDuration tracks aggregation pass duration in seconds.
var AggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "moodlift",
	Name:      "aggregation_duration_seconds",
	Help:      "Statistics aggregation pass duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
})

// TableScanFailures counts per-table read failures tolerated during
// aggregation. A rising rate means degraded (but not failing) snapshots.
var TableScanFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "moodlift",
	Name:      "table_scan_failures_total",
	Help:      "Aggregation sub-scans that failed and contributed zero records.",
}, []string{"table"})

// ─── Activity ───────────────────────────────────────────────────────────────

// ActivitiesRecorded counts recorded mini-game attempts by task type.
var ActivitiesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "moodlift",
	Name:      "activities_recorded_total",
	Help:      "Total mini-game attempt records written.",
}, []string{"task_type"})

// ─── Coach ──────────────────────────────────────────────────────────────────

// CoachFallbacks counts coach messages substituted with the fixed
// fallback string after a timeout or upstream error.
var CoachFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "moodlift",
	Name:      "coach_fallbacks_total",
	Help:      "Coach messages that fell back to the canned string.",
}, []string{"type"})

package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// MatchingRuns counts matching runs by outcome
	MatchingRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vulnguard",
			Name:      "matching_runs_total",
			Help:      "Total number of matching runs executed",
		},
		[]string{"outcome"},
	)

	// MatchesFound counts matches produced, labeled by tier
	MatchesFound = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vulnguard",
			Name:      "matches_found_total",
			Help:      "Total number of vulnerability matches produced",
		},
		[]string{"match_type"},
	)

	// RiskScoresComputed counts risk score calculations, labeled by level
	RiskScoresComputed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vulnguard",
			Name:      "risk_scores_computed_total",
			Help:      "Total number of composite risk scores computed",
		},
		[]string{"level"},
	)

	// GraphRebuilds counts attack graph rebuilds by outcome
	GraphRebuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vulnguard",
			Name:      "graph_rebuilds_total",
			Help:      "Total number of attack graph rebuilds",
		},
		[]string{"outcome"},
	)

	// GraphRebuildDuration observes rebuild wall time
	GraphRebuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vulnguard",
			Name:      "graph_rebuild_duration_seconds",
			Help:      "Wall time of full attack graph rebuilds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// AnalyzerQueries counts analyzer queries by operation and outcome
	AnalyzerQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vulnguard",
			Name:      "analyzer_queries_total",
			Help:      "Total number of attack graph analyzer queries",
		},
		[]string{"operation", "outcome"},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// This function is idempotent and can be called multiple times safely.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(MatchingRuns)
		prometheus.DefaultRegisterer.Register(MatchesFound)
		prometheus.DefaultRegisterer.Register(RiskScoresComputed)
		prometheus.DefaultRegisterer.Register(GraphRebuilds)
		prometheus.DefaultRegisterer.Register(GraphRebuildDuration)
		prometheus.DefaultRegisterer.Register(AnalyzerQueries)
	})
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ranking Prometheus metrics.
var (
	RankRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumerank",
			Name:      "rank_requests_total",
			Help:      "Total number of ranking calls",
		},
		[]string{"status"}, // "ok" / "error"
	)

	RankDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "resumerank",
			Name:      "rank_duration_seconds",
			Help:      "Ranking call duration in seconds, query embedding included",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	RankCandidatesScoredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "resumerank",
			Name:      "rank_candidates_scored_total",
			Help:      "Total number of candidates scored",
		},
	)

	RankCandidatesSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumerank",
			Name:      "rank_candidates_skipped_total",
			Help:      "Candidates left out of a ranking",
		},
		[]string{"reason"},
	)

	SnapshotCandidates = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "resumerank",
			Name:      "snapshot_candidates",
			Help:      "Number of candidates in the current ranking snapshot",
		},
	)
)

var rankMetricsRegistered bool

// RegisterRankingMetrics registers Prometheus ranking metrics. Must be called once from main.
func RegisterRankingMetrics() {
	if rankMetricsRegistered {
		return
	}
	prometheus.MustRegister(RankRequestsTotal)
	prometheus.MustRegister(RankDuration)
	prometheus.MustRegister(RankCandidatesScoredTotal)
	prometheus.MustRegister(RankCandidatesSkippedTotal)
	prometheus.MustRegister(SnapshotCandidates)
	rankMetricsRegistered = true
}

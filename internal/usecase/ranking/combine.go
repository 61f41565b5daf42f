package ranking

import (
	"sort"

	"github.com/kailas-cloud/resumerank/internal/domain/ranking/score"
	"github.com/kailas-cloud/resumerank/internal/domain/ranking/weight"
)

// Combine blends keyword and semantic scores: (kw*wk + sem*ws) / (wk + ws).
// Both weights zero divides by 1, so the result is 0.
func Combine(kw, sem float64, w weight.Pair) float64 {
	return (kw*w.Keyword() + sem*w.Semantic()) / w.Total()
}

// Sort orders records by final score, highest first. Ties keep their input order.
func Sort(records []score.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Final() > records[j].Final()
	})
}

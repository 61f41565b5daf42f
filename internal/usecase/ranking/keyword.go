package ranking

import (
	"strings"

	"github.com/kailas-cloud/resumerank/internal/domain/ranking/requirement"
)

// KeywordScore returns the fraction of requirement phrases found in text, in [0,1].
// Matching is a case-folded exact substring test; an empty set scores 0.
// Duplicate phrases count once per occurrence.
func KeywordScore(text string, reqs requirement.Set) float64 {
	if reqs.IsEmpty() {
		return 0
	}
	folded := requirement.Fold(text)
	found := 0
	for _, phrase := range reqs.Folded() {
		if strings.Contains(folded, phrase) {
			found++
		}
	}
	return float64(found) / float64(reqs.Len())
}

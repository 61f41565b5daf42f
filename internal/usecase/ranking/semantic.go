package ranking

import (
	"errors"
	"math"

	"github.com/kailas-cloud/resumerank/internal/domain"
)

// CosineSimilarity returns dot(a,b) / (|a| * |b|) in [-1,1].
// Different lengths yield *domain.DimensionMismatchError; a zero-norm vector yields
// domain.ErrUndefinedSimilarity.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, domain.NewDimensionMismatch(len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, domain.ErrUndefinedSimilarity
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// SemanticScore is the cosine similarity clamped to [0,1].
// A zero-norm vector scores 0 with a nil error; a dimension mismatch is returned as is.
func SemanticScore(query, cand []float32) (float64, error) {
	sim, err := CosineSimilarity(query, cand)
	if errors.Is(err, domain.ErrUndefinedSimilarity) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return clamp01(sim), nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Package weight holds the keyword/semantic weight pair used by the score combiner.
package weight

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/resumerank/internal/domain"
)

// PercentScale converts slider weights (0..100) to fractions.
const PercentScale = 100

// Pair is a validated (keyword, semantic) weight pair. Both weights are finite and >= 0.
type Pair struct {
	keyword  float64
	semantic float64
}

// New validates and creates a Pair. Negative or non-finite weights are rejected, never clamped.
func New(keyword, semantic float64) (Pair, error) {
	if err := check("keyword", keyword); err != nil {
		return Pair{}, err
	}
	if err := check("semantic", semantic); err != nil {
		return Pair{}, err
	}
	return Pair{keyword: keyword, semantic: semantic}, nil
}

// FromPercent converts integer slider values (0..100) into a Pair.
func FromPercent(keyword, semantic int) (Pair, error) {
	return New(float64(keyword)/PercentScale, float64(semantic)/PercentScale)
}

// MustNew is New for constants known to be valid; it panics otherwise.
func MustNew(keyword, semantic float64) Pair {
	p, err := New(keyword, semantic)
	if err != nil {
		panic(err)
	}
	return p
}

// Keyword returns the keyword weight.
func (p Pair) Keyword() float64 { return p.keyword }

// Semantic returns the semantic weight.
func (p Pair) Semantic() float64 { return p.semantic }

// Total returns keyword + semantic, or 1 when both are zero so the combiner never divides by zero.
// With both weights zero the final score is therefore 0, not an unweighted average.
func (p Pair) Total() float64 {
	total := p.keyword + p.semantic
	if total == 0 {
		return 1
	}
	return total
}

// IsZero reports whether both weights are zero.
func (p Pair) IsZero() bool { return p.keyword == 0 && p.semantic == 0 }

func check(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s weight must be finite: %w", name, domain.ErrInvalidWeight)
	}
	if v < 0 {
		return fmt.Errorf("%s weight must be non-negative, got %g: %w", name, v, domain.ErrInvalidWeight)
	}
	return nil
}

// Package score defines the per-candidate output of a ranking call.
package score

import "math"

// Record is one scored candidate. Scores are percentages in [0,100] rounded to 2 decimals.
// The three values are rounded independently, so Final need not equal the weighted
// sum of the rounded Keyword and Semantic values.
type Record struct {
	id       string
	final    float64
	keyword  float64
	semantic float64
}

// NewRecord builds a Record from raw [0,1] scores, converting each to a rounded percentage.
func NewRecord(id string, keyword, semantic, final float64) Record {
	return Record{
		id:       id,
		final:    Percent(final),
		keyword:  Percent(keyword),
		semantic: Percent(semantic),
	}
}

// ID returns the candidate identifier.
func (r *Record) ID() string { return r.id }

// Final returns the combined score percentage.
func (r *Record) Final() float64 { return r.final }

// Keyword returns the keyword score percentage.
func (r *Record) Keyword() float64 { return r.keyword }

// Semantic returns the semantic score percentage.
func (r *Record) Semantic() float64 { return r.semantic }

// Percent converts a [0,1] fraction into a percentage rounded to 2 decimal places.
func Percent(v float64) float64 {
	return Round2(v * 100)
}

// Round2 rounds half away from zero to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

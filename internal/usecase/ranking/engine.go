package ranking

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumerank/internal/domain"
	domcand "github.com/kailas-cloud/resumerank/internal/domain/candidate"
	"github.com/kailas-cloud/resumerank/internal/domain/ranking/requirement"
	"github.com/kailas-cloud/resumerank/internal/domain/ranking/score"
	"github.com/kailas-cloud/resumerank/internal/domain/ranking/weight"
)

// Skip reasons reported in Outcome.Skipped.
const (
	ReasonDimensionMismatch = "dimension_mismatch"
)

// Skipped is a candidate left out of a ranking.
type Skipped struct {
	ID     string
	Reason string
}

// Outcome is the result of one ranking call.
type Outcome struct {
	Records []score.Record
	Skipped []Skipped
}

// Engine scores and orders candidates. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a ranking engine. A nil logger is replaced by a no-op one.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Rank scores every candidate against the query vector and requirement set and sorts the result.
//
// A malformed query or candidate embedding aborts the whole call with domain.ErrMalformedEmbedding.
// A candidate whose dimension differs from the query is skipped, logged and reported in Outcome.Skipped.
// An empty candidate slice yields an empty, non-nil Records slice.
func (e *Engine) Rank(
	queryVec []float32, reqs requirement.Set, candidates []domcand.Candidate, w weight.Pair,
) (Outcome, error) {
	out := Outcome{Records: make([]score.Record, 0, len(candidates))}
	if len(candidates) == 0 {
		return out, nil
	}

	if err := domcand.ValidateEmbedding(queryVec); err != nil {
		return Outcome{}, fmt.Errorf("query embedding: %w", err)
	}
	return e.score(queryVec, reqs, candidates, w)
}

// RankKeywords ranks without a semantic signal, for a blank job description.
// Every candidate scores semantic 0, as under the zero-norm policy. Candidate
// embeddings are still validated, so a malformed one aborts the call.
func (e *Engine) RankKeywords(reqs requirement.Set, candidates []domcand.Candidate, w weight.Pair) (Outcome, error) {
	if len(candidates) == 0 {
		return Outcome{Records: []score.Record{}}, nil
	}
	return e.score(nil, reqs, candidates, w)
}

// score evaluates every candidate. A nil queryVec gives semantic 0 throughout.
func (e *Engine) score(
	queryVec []float32, reqs requirement.Set, candidates []domcand.Candidate, w weight.Pair,
) (Outcome, error) {
	out := Outcome{Records: make([]score.Record, 0, len(candidates))}
	for i := range candidates {
		c := &candidates[i]
		if err := domcand.ValidateEmbedding(c.Embedding()); err != nil {
			return Outcome{}, fmt.Errorf("candidate %q: %w", c.ID(), err)
		}

		var sem float64
		var err error
		if queryVec != nil {
			sem, err = SemanticScore(queryVec, c.Embedding())
		}
		if err != nil {
			if errors.Is(err, domain.ErrDimensionMismatch) {
				e.logger.Warn("Candidate skipped",
					zap.String("candidate_id", c.ID()),
					zap.String("reason", ReasonDimensionMismatch),
					zap.Int("query_dim", len(queryVec)),
					zap.Int("candidate_dim", len(c.Embedding())),
				)
				out.Skipped = append(out.Skipped, Skipped{ID: c.ID(), Reason: ReasonDimensionMismatch})
				continue
			}
			return Outcome{}, fmt.Errorf("candidate %q: %w", c.ID(), err)
		}

		kw := KeywordScore(c.Text(), reqs)
		out.Records = append(out.Records, score.NewRecord(c.ID(), kw, sem, Combine(kw, sem, w)))
	}

	Sort(out.Records)
	return out, nil
}

// Rank is the single-call entry point: it validates the weights, parses requirementsCSV
// and ranks candidates with a no-op logger. Skipped candidates are dropped from the result.
func Rank(
	queryVec []float32, requirementsCSV string, candidates []domcand.Candidate, keywordWeight, semanticWeight float64,
) ([]score.Record, error) {
	w, err := weight.New(keywordWeight, semanticWeight)
	if err != nil {
		return nil, err
	}
	out, err := NewEngine(nil).Rank(queryVec, requirement.Parse(requirementsCSV), candidates, w)
	if err != nil {
		return nil, err
	}
	return out.Records, nil
}

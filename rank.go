package resumerank

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/resumerank/internal/domain/ranking/request"
	"github.com/kailas-cloud/resumerank/internal/domain/ranking/weight"
	rankinguc "github.com/kailas-cloud/resumerank/internal/usecase/ranking"
)

const defaultWeight = 0.5

type ranker interface {
	Rank(ctx context.Context, req *request.Request) (rankinguc.Outcome, error)
}

// RankBuilder is a fluent builder for ranking queries.
type RankBuilder struct {
	svc ranker

	query          string
	requirements   string
	keywordWeight  float64
	semanticWeight float64
	limit          int
}

// Requirements sets the comma-separated keywords checked against each resume.
func (b *RankBuilder) Requirements(csv string) *RankBuilder {
	b.requirements = csv
	return b
}

// Weights sets the keyword and semantic weights. Both default to 0.5.
// They need not sum to 1: the final score divides by their total.
func (b *RankBuilder) Weights(keyword, semantic float64) *RankBuilder {
	b.keywordWeight = keyword
	b.semanticWeight = semantic
	return b
}

// Limit caps the number of results. 0 returns every candidate.
func (b *RankBuilder) Limit(n int) *RankBuilder {
	b.limit = n
	return b
}

// Do runs the ranking against the current snapshot.
func (b *RankBuilder) Do(ctx context.Context) (Ranking, error) {
	w, err := weight.New(b.keywordWeight, b.semanticWeight)
	if err != nil {
		return Ranking{}, fmt.Errorf("rank: %w", err)
	}
	req, err := request.New(b.query, b.requirements, w, b.limit)
	if err != nil {
		return Ranking{}, fmt.Errorf("rank: %w", err)
	}

	out, err := b.svc.Rank(ctx, &req)
	if err != nil {
		return Ranking{}, fmt.Errorf("rank: %w", err)
	}
	return fromOutcome(out), nil
}

func fromOutcome(out rankinguc.Outcome) Ranking {
	r := Ranking{
		Results: make([]Result, len(out.Records)),
		Skipped: make([]Skipped, len(out.Skipped)),
	}
	for i := range out.Records {
		rec := &out.Records[i]
		r.Results[i] = Result{
			ID:            rec.ID(),
			FinalScore:    rec.Final(),
			KeywordScore:  rec.Keyword(),
			SemanticScore: rec.Semantic(),
		}
	}
	for i, sk := range out.Skipped {
		r.Skipped[i] = Skipped{ID: sk.ID, Reason: sk.Reason}
	}
	return r
}

package resumerank

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/resumerank/internal/domain/ranking/request"
	"github.com/kailas-cloud/resumerank/internal/domain/ranking/score"
	rankinguc "github.com/kailas-cloud/resumerank/internal/usecase/ranking"
)

type stubRanker struct {
	last *request.Request
	out  rankinguc.Outcome
	err  error
}

func (s *stubRanker) Rank(_ context.Context, req *request.Request) (rankinguc.Outcome, error) {
	s.last = req
	return s.out, s.err
}

func TestRankBuilder_Defaults(t *testing.T) {
	r := &stubRanker{}
	b := &RankBuilder{svc: r, query: "jd", keywordWeight: defaultWeight, semanticWeight: defaultWeight}
	if _, err := b.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if r.last.Weights().Keyword() != 0.5 || r.last.Weights().Semantic() != 0.5 || r.last.Limit() != 0 {
		t.Errorf("unexpected request weights=%+v limit=%d", r.last.Weights(), r.last.Limit())
	}
}

func TestRankBuilder_PassesParameters(t *testing.T) {
	r := &stubRanker{out: rankinguc.Outcome{
		Records: []score.Record{score.NewRecord("a.txt", 1, 0.5, 0.75)},
		Skipped: []rankinguc.Skipped{{ID: "b.txt", Reason: rankinguc.ReasonDimensionMismatch}},
	}}
	b := &RankBuilder{svc: r, query: "Backend"}
	got, err := b.Requirements("Python, SQL").Weights(1, 0.3).Limit(5).Do(context.Background())
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	if r.last.Query() != "Backend" || r.last.Requirements().Len() != 2 || r.last.Limit() != 5 {
		t.Errorf("unexpected request %+v", r.last)
	}
	if len(got.Results) != 1 || got.Results[0].FinalScore != 75 || got.Results[0].SemanticScore != 50 {
		t.Errorf("unexpected results %+v", got.Results)
	}
	if len(got.Skipped) != 1 || got.Skipped[0].Reason != "dimension_mismatch" {
		t.Errorf("unexpected skipped %+v", got.Skipped)
	}
}

func TestRankBuilder_Errors(t *testing.T) {
	r := &stubRanker{}
	if _, err := (&RankBuilder{svc: r}).Limit(-1).Do(context.Background()); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
	if r.last != nil {
		t.Error("ranker must not be called for an invalid request")
	}

	r.err = ErrEmbedding
	if _, err := (&RankBuilder{svc: r}).Do(context.Background()); !errors.Is(err, ErrEmbedding) {
		t.Errorf("expected ErrEmbedding, got %v", err)
	}
}

package ranking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumerank/internal/domain/ranking/request"
	"github.com/kailas-cloud/resumerank/internal/logger"
	"github.com/kailas-cloud/resumerank/internal/metrics"
)

// Service runs ranking requests against the current candidate snapshot.
type Service struct {
	engine     *Engine
	embed      Embedder
	candidates CandidateSource
}

// New creates a ranking service.
func New(engine *Engine, embed Embedder, candidates CandidateSource) *Service {
	return &Service{engine: engine, embed: embed, candidates: candidates}
}

// Rank embeds the job description once, scores the snapshot and truncates to the request limit.
// Skipped candidates are reported in full regardless of the limit.
func (s *Service) Rank(ctx context.Context, req *request.Request) (out Outcome, err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.RankRequestsTotal.WithLabelValues(status).Inc()
		metrics.RankDuration.Observe(time.Since(start).Seconds())
	}()

	cands, err := s.candidates.Candidates(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("load candidates: %w", err)
	}

	// Providers reject empty input; a blank job description ranks on keywords alone.
	if len(cands) == 0 || strings.TrimSpace(req.Query()) == "" {
		out, err = s.engine.RankKeywords(req.Requirements(), cands, req.Weights())
	} else {
		res, embErr := s.embed.Embed(ctx, req.Query())
		if embErr != nil {
			return Outcome{}, fmt.Errorf("vectorize query: %w", embErr)
		}
		out, err = s.engine.Rank(res.Embedding, req.Requirements(), cands, req.Weights())
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("rank: %w", err)
	}

	metrics.RankCandidatesScoredTotal.Add(float64(len(out.Records)))
	for _, sk := range out.Skipped {
		metrics.RankCandidatesSkippedTotal.WithLabelValues(sk.Reason).Inc()
	}

	if req.Limit() > 0 && len(out.Records) > req.Limit() {
		out.Records = out.Records[:req.Limit()]
	}

	logger.FromContext(ctx).Debug("Ranking completed",
		zap.Int("candidates", len(cands)),
		zap.Int("requirements", req.Requirements().Len()),
		zap.Int("returned", len(out.Records)),
		zap.Int("skipped", len(out.Skipped)),
		zap.Duration("duration", time.Since(start)),
	)

	return out, nil
}

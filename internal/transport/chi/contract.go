package chi

import (
	"context"

	dombatch "github.com/kailas-cloud/resumerank/internal/domain/batch"
	domcand "github.com/kailas-cloud/resumerank/internal/domain/candidate"
	"github.com/kailas-cloud/resumerank/internal/domain/ranking/request"
	candidateuc "github.com/kailas-cloud/resumerank/internal/usecase/candidate"
	healthuc "github.com/kailas-cloud/resumerank/internal/usecase/health"
	rankinguc "github.com/kailas-cloud/resumerank/internal/usecase/ranking"
)

// Ranker runs a ranking request against the candidate snapshot.
type Ranker interface {
	Rank(ctx context.Context, req *request.Request) (rankinguc.Outcome, error)
}

// CandidateService manages stored candidates.
type CandidateService interface {
	Ingest(ctx context.Context, id, text string) (domcand.Candidate, error)
	IngestBatch(ctx context.Context, items []candidateuc.Item) []dombatch.Result
	Get(ctx context.Context, id string) (domcand.Candidate, error)
	List(ctx context.Context) ([]domcand.Candidate, error)
	Delete(ctx context.Context, id string) error
}

// SnapshotRefresher rebuilds the ranking snapshot.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

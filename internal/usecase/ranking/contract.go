package ranking

import (
	"context"

	"github.com/kailas-cloud/resumerank/internal/domain"
	domcand "github.com/kailas-cloud/resumerank/internal/domain/candidate"
)

// Embedder vectorizes the job description.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// CandidateSource supplies a read-only, consistent snapshot of all candidates.
// The returned slice must not be mutated by either side for the duration of a call.
type CandidateSource interface {
	Candidates(ctx context.Context) ([]domcand.Candidate, error)
}

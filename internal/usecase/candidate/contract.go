package candidate

import (
	"context"

	"github.com/kailas-cloud/resumerank/internal/domain"
	domcand "github.com/kailas-cloud/resumerank/internal/domain/candidate"
)

// Repository defines the storage contract for candidates.
type Repository interface {
	Create(ctx context.Context, c *domcand.Candidate) (domcand.Candidate, error)
	Get(ctx context.Context, id string) (domcand.Candidate, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domcand.Candidate, error)
}

// Embedder vectorizes candidate text at ingestion time.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Refresher rebuilds the in-memory ranking snapshot after writes.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

package candidate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/resumerank/internal/domain"
	dombatch "github.com/kailas-cloud/resumerank/internal/domain/batch"
	domcand "github.com/kailas-cloud/resumerank/internal/domain/candidate"
)

// DefaultConcurrency is the number of candidates embedded in parallel during batch ingestion.
const DefaultConcurrency = 4

// Item is one candidate to ingest. An empty ID gets a generated UUID.
type Item struct {
	ID   string
	Text string
}

// Service handles candidate ingestion with automatic vectorization.
type Service struct {
	repo        Repository
	embed       Embedder
	refresher   Refresher
	dims        int
	concurrency int
	logger      *zap.Logger
}

// New creates a candidate service.
func New(repo Repository, embed Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		embed:       embed,
		concurrency: DefaultConcurrency,
		logger:      logger,
	}
}

// WithRefresher rebuilds the ranking snapshot after every successful write.
func (s *Service) WithRefresher(r Refresher) *Service {
	s.refresher = r
	return s
}

// WithDimensions rejects embeddings whose length differs from dims (0 accepts any length).
func (s *Service) WithDimensions(dims int) *Service {
	if dims > 0 {
		s.dims = dims
	}
	return s
}

// WithConcurrency configures the batch ingestion worker count.
func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// Ingest validates, embeds and stores a single candidate.
func (s *Service) Ingest(ctx context.Context, id, text string) (domcand.Candidate, error) {
	c, err := s.ingest(ctx, Item{ID: id, Text: text})
	if err != nil {
		return domcand.Candidate{}, err
	}
	s.refresh(ctx)
	return c, nil
}

// IngestBatch embeds items with bounded parallelism, then stores them one at a time in input
// order so insertion sequence follows the batch order regardless of provider latency.
// It reports one result per item, in input order. Ids that already exist are reported as skipped.
func (s *Service) IngestBatch(ctx context.Context, items []Item) []dombatch.Result {
	results := make([]dombatch.Result, len(items))
	prepared := make([]domcand.Candidate, len(items))
	failed := make([]error, len(items))

	ids := make([]string, len(items))
	for i := range items {
		ids[i] = itemID(items[i])
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range items {
		g.Go(func() error {
			prepared[i], failed[i] = s.prepare(ctx, ids[i], items[i].Text)
			return nil
		})
	}
	_ = g.Wait() // workers never return an error

	created := 0
	for i := range items {
		err := failed[i]
		if err == nil {
			_, err = s.store(ctx, &prepared[i])
		}
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			results[i] = dombatch.NewSkipped(ids[i], err)
		case err != nil:
			results[i] = dombatch.NewError(ids[i], err)
		default:
			results[i] = dombatch.NewOK(ids[i])
			created++
		}
	}

	if created > 0 {
		s.refresh(ctx)
	}
	return results
}

// Get returns a stored candidate.
func (s *Service) Get(ctx context.Context, id string) (domcand.Candidate, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return domcand.Candidate{}, fmt.Errorf("get candidate: %w", err)
	}
	return c, nil
}

// List returns every stored candidate in insertion order.
func (s *Service) List(ctx context.Context) ([]domcand.Candidate, error) {
	cands, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return cands, nil
}

// Delete removes a candidate.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	s.refresh(ctx)
	return nil
}

func (s *Service) ingest(ctx context.Context, item Item) (domcand.Candidate, error) {
	c, err := s.prepare(ctx, itemID(item), item.Text)
	if err != nil {
		return domcand.Candidate{}, err
	}
	return s.store(ctx, &c)
}

func itemID(item Item) string {
	if item.ID == "" {
		return uuid.NewString()
	}
	return item.ID
}

// prepare validates and embeds a candidate without storing it.
func (s *Service) prepare(ctx context.Context, id, text string) (domcand.Candidate, error) {
	c, err := domcand.New(id, text)
	if err != nil {
		return domcand.Candidate{}, err
	}

	// Create still guards the race; this check avoids embedding known duplicates.
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return domcand.Candidate{}, fmt.Errorf("check candidate: %w", err)
	}
	if exists {
		return domcand.Candidate{}, fmt.Errorf("candidate %q: %w", id, domain.ErrAlreadyExists)
	}

	res, err := s.embed.Embed(ctx, c.Text())
	if err != nil {
		return domcand.Candidate{}, fmt.Errorf("vectorize candidate: %w", err)
	}
	if err := domcand.ValidateEmbedding(res.Embedding); err != nil {
		return domcand.Candidate{}, fmt.Errorf("vectorize candidate: %w", err)
	}
	if s.dims > 0 && len(res.Embedding) != s.dims {
		return domcand.Candidate{}, fmt.Errorf("vectorize candidate: %w", domain.NewDimensionMismatch(s.dims, len(res.Embedding)))
	}

	return c.WithEmbedding(res.Embedding), nil
}

// store persists a prepared candidate, assigning its insertion sequence.
func (s *Service) store(ctx context.Context, c *domcand.Candidate) (domcand.Candidate, error) {
	stored, err := s.repo.Create(ctx, c)
	if err != nil {
		return domcand.Candidate{}, fmt.Errorf("create candidate: %w", err)
	}

	s.logger.Debug("Candidate ingested",
		zap.String("candidate_id", stored.ID()),
		zap.Int64("seq", stored.Seq()),
		zap.Int("dimensions", len(stored.Embedding())),
	)
	return stored, nil
}

// refresh rebuilds the snapshot. The write already succeeded, so failures are logged only.
func (s *Service) refresh(ctx context.Context) {
	if s.refresher == nil {
		return
	}
	if _, err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Warn("Snapshot refresh failed", zap.Error(err))
	}
}

// Package resumerank embeds the resume ranking engine in a Go program.
//
// A Client stores candidates in Redis or Valkey, embeds them through a
// caller-supplied Embedder and ranks them against a job description:
//
//	c, err := resumerank.New(
//		resumerank.WithRedis("localhost:6379", ""),
//		resumerank.WithEmbedder(myEmbedder),
//	)
//	...
//	ranking, err := c.Rank("Senior backend engineer").
//		Requirements("Go, Redis").
//		Weights(0.6, 0.4).
//		Limit(10).
//		Do(ctx)
package resumerank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumerank/internal/db"
	dbRedis "github.com/kailas-cloud/resumerank/internal/db/redis"
	"github.com/kailas-cloud/resumerank/internal/domain"
	domcand "github.com/kailas-cloud/resumerank/internal/domain/candidate"
	candidaterepo "github.com/kailas-cloud/resumerank/internal/repository/candidate"
	"github.com/kailas-cloud/resumerank/internal/repository/snapshot"
	candidateuc "github.com/kailas-cloud/resumerank/internal/usecase/candidate"
	rankinguc "github.com/kailas-cloud/resumerank/internal/usecase/ranking"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the resumerank SDK entry point.
type Client struct {
	store      db.Store
	candidates *candidateuc.Service
	snapshot   *snapshot.Cache
	ranking    *rankinguc.Service
}

// New creates a Client, connects to the database and loads the candidate snapshot.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: driverRedis}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("resumerank: database address required (use WithRedis or WithValkey)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("resumerank: database not ready: %w", err)
	}

	c := wireClient(store, cfg)
	if err := c.Refresh(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverRedis, driverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("resumerank: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("resumerank: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Embedder: noop if not set (ingest and rank with candidates will fail)
	var domEmb domain.Embedder = noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}

	prefix := cfg.keyPrefix
	if prefix == "" {
		prefix = domain.DefaultKeyPrefix
	}

	repo := candidaterepo.New(store, prefix)
	cache := snapshot.New(repo, nil, logger)
	candSvc := candidateuc.New(repo, domEmb, logger).
		WithDimensions(cfg.dimensions).
		WithConcurrency(cfg.concurrency).
		WithRefresher(cache)

	return &Client{
		store:      store,
		candidates: candSvc,
		snapshot:   cache,
		ranking:    rankinguc.New(rankinguc.NewEngine(logger), domEmb, cache),
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Refresh reloads the candidate snapshot from the database. Writes made through
// this Client refresh it automatically; call Refresh to pick up writes from other processes.
func (c *Client) Refresh(ctx context.Context) error {
	if _, err := c.snapshot.Refresh(ctx); err != nil {
		return fmt.Errorf("resumerank: refresh: %w", err)
	}
	return nil
}

// Ingest embeds and stores one candidate.
func (c *Client) Ingest(ctx context.Context, id, text string) (Candidate, error) {
	cand, err := c.candidates.Ingest(ctx, id, text)
	if err != nil {
		return Candidate{}, fmt.Errorf("ingest: %w", err)
	}
	return fromDomainCandidate(&cand, false), nil
}

// IngestBatch stores many candidates and returns one result per item, in input order.
// Ids that already exist are reported with StatusSkipped.
func (c *Client) IngestBatch(ctx context.Context, items []BatchItem) []BatchResult {
	in := make([]candidateuc.Item, len(items))
	for i, it := range items {
		in[i] = candidateuc.Item{ID: it.ID, Text: it.Text}
	}
	results := c.candidates.IngestBatch(ctx, in)
	out := make([]BatchResult, len(results))
	for i, r := range results {
		out[i] = BatchResult{ID: r.ID(), Status: BatchStatus(r.Status()), Err: r.Err()}
	}
	return out
}

// Get returns a stored candidate including its resume text.
func (c *Client) Get(ctx context.Context, id string) (Candidate, error) {
	cand, err := c.candidates.Get(ctx, id)
	if err != nil {
		return Candidate{}, fmt.Errorf("get: %w", err)
	}
	return fromDomainCandidate(&cand, true), nil
}

// List returns every stored candidate in insertion order, without resume text.
func (c *Client) List(ctx context.Context) ([]Candidate, error) {
	cands, err := c.candidates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	out := make([]Candidate, len(cands))
	for i := range cands {
		out[i] = fromDomainCandidate(&cands[i], false)
	}
	return out, nil
}

// Delete removes a candidate.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.candidates.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Rank starts a ranking query for a job description.
func (c *Client) Rank(jobDescription string) *RankBuilder {
	return &RankBuilder{
		svc:            c.ranking,
		query:          jobDescription,
		keywordWeight:  defaultWeight,
		semanticWeight: defaultWeight,
	}
}

func fromDomainCandidate(c *domcand.Candidate, withText bool) Candidate {
	out := Candidate{ID: c.ID(), Seq: c.Seq(), Dimensions: len(c.Embedding())}
	if withText {
		out.Text = c.Text()
	}
	return out
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, fmt.Errorf(
		"%w: resumerank: embedder not configured (use WithEmbedder)", domain.ErrEmbeddingProviderError,
	)
}

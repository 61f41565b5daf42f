// Package snapshot holds the in-memory candidate set that ranking calls read from.
package snapshot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumerank/internal/domain"
	domcand "github.com/kailas-cloud/resumerank/internal/domain/candidate"
)

// Lister reads every candidate from durable storage.
type Lister interface {
	List(ctx context.Context) ([]domcand.Candidate, error)
}

// Cache serves an immutable candidate snapshot. Readers never block; Refresh swaps
// in a freshly listed slice, so a ranking call keeps the snapshot it started with.
type Cache struct {
	lister  Lister
	size    prometheus.Gauge
	logger  *zap.Logger
	current atomic.Pointer[[]domcand.Candidate]
	mu      sync.Mutex // serializes Refresh
}

// New creates an empty cache. size (optional) tracks the snapshot length.
func New(lister Lister, size prometheus.Gauge, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{lister: lister, size: size, logger: logger}
}

// Load performs the initial Refresh at startup.
func (c *Cache) Load(ctx context.Context) (int, error) {
	return c.Refresh(ctx)
}

// Refresh rebuilds the snapshot from the lister and returns its size.
// On error the previous snapshot stays in place.
func (c *Cache) Refresh(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cands, err := c.lister.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list candidates: %w", err)
	}
	c.current.Store(&cands)

	if c.size != nil {
		c.size.Set(float64(len(cands)))
	}
	c.logger.Info("Candidate snapshot refreshed", zap.Int("candidates", len(cands)))
	return len(cands), nil
}

// Candidates returns the current snapshot. Callers must not mutate it.
func (c *Cache) Candidates(_ context.Context) ([]domcand.Candidate, error) {
	p := c.current.Load()
	if p == nil {
		return nil, domain.ErrSnapshotNotLoaded
	}
	return *p, nil
}

// Loaded reports whether a snapshot has been stored.
func (c *Cache) Loaded() bool { return c.current.Load() != nil }

// Static is a fixed candidate source for one-shot use and tests.
type Static []domcand.Candidate

// Candidates returns the fixed slice.
func (s Static) Candidates(_ context.Context) ([]domcand.Candidate, error) {
	return s, nil
}

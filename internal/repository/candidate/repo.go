package candidate

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/resumerank/internal/domain"
	domcand "github.com/kailas-cloud/resumerank/internal/domain/candidate"
)

// store is the consumer interface for candidates (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Repo implements usecase/candidate.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a candidate repository. prefix namespaces every key (e.g. "resumerank:").
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Create stores a new candidate and assigns its insertion sequence.
// The id is claimed atomically with HSETNX on the sequence field, so concurrent
// creates of the same id yield exactly one winner.
func (r *Repo) Create(ctx context.Context, c *domcand.Candidate) (domcand.Candidate, error) {
	key := r.candidateKey(c.ID())

	seq, err := r.store.Incr(ctx, r.seqKey())
	if err != nil {
		return domcand.Candidate{}, fmt.Errorf("next seq: %w", err)
	}

	claimed, err := r.store.HSetNX(ctx, key, fieldSeq, strconv.FormatInt(seq, 10))
	if err != nil {
		return domcand.Candidate{}, fmt.Errorf("claim %s: %w", key, err)
	}
	if !claimed {
		return domcand.Candidate{}, fmt.Errorf("candidate %q: %w", c.ID(), domain.ErrAlreadyExists)
	}

	if err := r.store.HSet(ctx, key, buildHashFields(c)); err != nil {
		if delErr := r.store.Del(ctx, key); delErr != nil {
			return domcand.Candidate{}, fmt.Errorf("hset %s: %w (rollback: %v)", key, err, delErr)
		}
		return domcand.Candidate{}, fmt.Errorf("hset %s: %w", key, err)
	}

	return c.WithSeq(seq), nil
}

// Get returns a candidate by id.
func (r *Repo) Get(ctx context.Context, id string) (domcand.Candidate, error) {
	key := r.candidateKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domcand.Candidate{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if !isComplete(m) {
		return domcand.Candidate{}, domain.ErrCandidateNotFound
	}
	return parseHashFields(id, m)
}

// Exists reports whether a candidate id is taken.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	key := r.candidateKey(id)
	ok, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}
	return ok, nil
}

// Delete removes a candidate.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.candidateKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrCandidateNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// List returns every stored candidate in insertion order (seq ascending, id as tiebreaker).
// Hashes still being written by a concurrent Create are left out.
func (r *Repo) List(ctx context.Context) ([]domcand.Candidate, error) {
	keys, err := r.store.Scan(ctx, r.candidateKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan candidates: %w", err)
	}
	if len(keys) == 0 {
		return []domcand.Candidate{}, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall candidates: %w", err)
	}

	out := make([]domcand.Candidate, 0, len(keys))
	for i, m := range hashes {
		if !isComplete(m) {
			continue
		}
		c, err := parseHashFields(r.extractID(keys[i]), m)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Seq() != out[j].Seq() {
			return out[i].Seq() < out[j].Seq()
		}
		return out[i].ID() < out[j].ID()
	})
	return out, nil
}

func (r *Repo) candidateKey(id string) string {
	return r.prefix + "candidate:" + id
}

func (r *Repo) seqKey() string {
	return r.prefix + "candidate_seq"
}

func (r *Repo) extractID(key string) string {
	return strings.TrimPrefix(key, r.prefix+"candidate:")
}

// isComplete reports whether a hash holds a fully written candidate.
func isComplete(m map[string]string) bool {
	_, ok := m[fieldText]
	return ok
}

package resumerank

import (
	"context"
	"errors"
	"maps"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New()
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown", addrs: []string{"localhost:1234"}}
	_, err := createStore(cfg)
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNoopEmbedder(t *testing.T) {
	_, err := noopEmbedder{}.Embed(context.Background(), "test")
	if !errors.Is(err, ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding, got %v", err)
	}
}

func TestEmbedderAdapter(t *testing.T) {
	called := false
	mock := &mockEmbedder{
		fn: func(_ context.Context, _ string) (EmbeddingResult, error) {
			called = true
			return EmbeddingResult{
				Embedding:    []float32{1, 2, 3},
				PromptTokens: 5,
				TotalTokens:  10,
			}, nil
		},
	}

	adapter := &embedderAdapter{inner: mock}
	result, err := adapter.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("inner embedder was not called")
	}
	if len(result.Embedding) != 3 {
		t.Errorf("embedding len = %d, want 3", len(result.Embedding))
	}
	if result.TotalTokens != 10 {
		t.Errorf("total tokens = %d, want 10", result.TotalTokens)
	}
}

func TestEmbedderAdapter_Error(t *testing.T) {
	cause := errors.New("provider down")
	mock := &mockEmbedder{
		fn: func(_ context.Context, _ string) (EmbeddingResult, error) {
			return EmbeddingResult{}, cause
		},
	}

	_, err := (&embedderAdapter{inner: mock}).Embed(context.Background(), "hello")
	if !errors.Is(err, ErrEmbedding) || !errors.Is(err, cause) {
		t.Fatalf("expected ErrEmbedding wrapping cause, got %v", err)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithValkey("localhost:6379", "secret")(cfg)
	if cfg.driver != "valkey" {
		t.Errorf("driver = %q, want valkey", cfg.driver)
	}
	if cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addr = %q, want localhost:6379", cfg.addrs[0])
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}

	cfg2 := &clientConfig{}
	WithRedis("localhost:6380", "pass")(cfg2)
	if cfg2.driver != "redis" {
		t.Errorf("driver = %q, want redis", cfg2.driver)
	}

	cfg3 := &clientConfig{}
	WithDimensions(768)(cfg3)
	WithConcurrency(8)(cfg3)
	WithKeyPrefix("test:")(cfg3)
	if cfg3.dimensions != 768 || cfg3.concurrency != 8 || cfg3.keyPrefix != "test:" {
		t.Errorf("unexpected config %+v", cfg3)
	}
}

func TestClient_Close_NilStore(t *testing.T) {
	c := &Client{store: nil}
	c.Close()
}

func TestClient_IngestAndRank(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, keywordEmbedder())

	if _, err := c.Ingest(ctx, "alice.txt", "Go and Redis engineer"); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	results := c.IngestBatch(ctx, []BatchItem{
		{ID: "bob.txt", Text: "Java developer"},
		{ID: "alice.txt", Text: "duplicate"},
	})
	if results[0].Status != StatusOK || results[1].Status != StatusSkipped {
		t.Fatalf("unexpected batch results %+v", results)
	}
	if !errors.Is(results[1].Err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", results[1].Err)
	}

	ranking, err := c.Rank("Go engineer").Requirements("Go, Redis").Weights(0.5, 0.5).Do(ctx)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(ranking.Results) != 2 || ranking.Results[0].ID != "alice.txt" {
		t.Fatalf("unexpected ranking %+v", ranking.Results)
	}
	if ranking.Results[0].KeywordScore != 100 || ranking.Results[1].KeywordScore != 0 {
		t.Errorf("unexpected keyword scores %+v", ranking.Results)
	}

	limited, err := c.Rank("Go engineer").Limit(1).Do(ctx)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(limited.Results) != 1 {
		t.Errorf("expected 1 result, got %d", len(limited.Results))
	}
}

func TestClient_GetListDelete(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, keywordEmbedder())

	for _, id := range []string{"a.txt", "b.txt"} {
		if _, err := c.Ingest(ctx, id, "resume "+id); err != nil {
			t.Fatalf("Ingest %s: %v", id, err)
		}
	}

	got, err := c.Get(ctx, "a.txt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Text != "resume a.txt" || got.Dimensions != 2 {
		t.Errorf("unexpected candidate %+v", got)
	}

	list, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a.txt" || list[0].Text != "" {
		t.Errorf("unexpected list %+v", list)
	}

	if err := c.Delete(ctx, "a.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "a.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	ranking, err := c.Rank("anything").Do(ctx)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(ranking.Results) != 1 || ranking.Results[0].ID != "b.txt" {
		t.Errorf("snapshot not refreshed after delete: %+v", ranking.Results)
	}
}

func TestClient_RankInvalidWeight(t *testing.T) {
	c := newTestClient(t, keywordEmbedder())
	_, err := c.Rank("jd").Weights(-1, 0.5).Do(context.Background())
	if !errors.Is(err, ErrInvalidWeight) {
		t.Fatalf("expected ErrInvalidWeight, got %v", err)
	}
}

func TestClient_IngestWithoutEmbedder(t *testing.T) {
	c := newTestClient(t, nil)
	_, err := c.Ingest(context.Background(), "a.txt", "text")
	if !errors.Is(err, ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding, got %v", err)
	}
}

// --- helpers ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

// keywordEmbedder maps texts mentioning Go onto one axis and everything else onto another.
func keywordEmbedder() Embedder {
	return &mockEmbedder{fn: func(_ context.Context, text string) (EmbeddingResult, error) {
		if strings.Contains(text, "Go") {
			return EmbeddingResult{Embedding: []float32{1, 0}}, nil
		}
		return EmbeddingResult{Embedding: []float32{0, 1}}, nil
	}}
}

func newTestClient(t *testing.T, emb Embedder) *Client {
	t.Helper()
	cfg := &clientConfig{embedder: emb}
	c := wireClient(newMemStore(), cfg)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return c
}

// memStore is an in-memory db.Store.
type memStore struct {
	mu     sync.Mutex
	hashes map[string]map[string]string
	kv     map[string][]byte
	counts map[string]int64
}

func newMemStore() *memStore {
	return &memStore{
		hashes: map[string]map[string]string{},
		kv:     map[string][]byte{},
		counts: map[string]int64{},
	}
}

func (s *memStore) Ping(context.Context) error                        { return nil }
func (s *memStore) Close()                                            {}
func (s *memStore) WaitForReady(context.Context, time.Duration) error { return nil }
func (s *memStore) SetWithTTL(ctx context.Context, k string, v []byte, _ time.Duration) error {
	return s.Set(ctx, k, v)
}

func (s *memStore) HSet(_ context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hashes[key] == nil {
		s.hashes[key] = map[string]string{}
	}
	maps.Copy(s.hashes[key], fields)
	return nil
}

func (s *memStore) HSetNX(_ context.Context, key, field, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hashes[key] == nil {
		s.hashes[key] = map[string]string{}
	}
	if _, ok := s.hashes[key][field]; ok {
		return false, nil
	}
	s.hashes[key][field] = value
	return true, nil
}

func (s *memStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.hashes[key]), nil
}

func (s *memStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i], _ = s.HGetAll(ctx, k)
	}
	return out, nil
}

func (s *memStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hashes, key)
	delete(s.kv, key)
	return nil
}

func (s *memStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, h := s.hashes[key]
	_, k := s.kv[key]
	return h || k, nil
}

func (s *memStore) Scan(_ context.Context, pattern string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range s.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv[key], nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = value
	return nil
}

func (s *memStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

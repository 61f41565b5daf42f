package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/resumerank/internal/config"
	"github.com/kailas-cloud/resumerank/internal/db"
	dbRedis "github.com/kailas-cloud/resumerank/internal/db/redis"
	"github.com/kailas-cloud/resumerank/internal/domain"
	"github.com/kailas-cloud/resumerank/internal/metrics"
	candidaterepo "github.com/kailas-cloud/resumerank/internal/repository/candidate"
	"github.com/kailas-cloud/resumerank/internal/repository/embcache"
	"github.com/kailas-cloud/resumerank/internal/repository/snapshot"
	geminiEmb "github.com/kailas-cloud/resumerank/internal/transport/gemini"
	openaiEmb "github.com/kailas-cloud/resumerank/internal/transport/openai"
	candidateuc "github.com/kailas-cloud/resumerank/internal/usecase/candidate"
	embeddinguc "github.com/kailas-cloud/resumerank/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/resumerank/internal/usecase/health"
	rankinguc "github.com/kailas-cloud/resumerank/internal/usecase/ranking"
)

// Embedder roles. Queries and documents share a model but may differ in instruction and task type.
const (
	roleDocument = "document"
	roleQuery    = "query"
)

// services is the composed object graph shared by the subcommands.
type services struct {
	store         db.Store
	repo          *candidaterepo.Repo
	snapshot      *snapshot.Cache
	docEmbedder   domain.Embedder
	queryEmbedder domain.Embedder
	candidates    *candidateuc.Service
	ranking       *rankinguc.Service
	health        *healthuc.Service
}

// buildServices connects to the store and assembles every use case. Callers must Close the store.
func buildServices(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*services, error) {
	store, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRankingMetrics()

	docEmbedder, err := buildEmbedder(ctx, cfg, roleDocument, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	queryEmbedder, err := buildEmbedder(ctx, cfg, roleQuery, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	logger.Info("Embedders created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cache", cfg.Embedding.Cache),
	)

	repo := candidaterepo.New(store, cfg.Storage.KeyPrefix)
	cache := snapshot.New(repo, metrics.SnapshotCandidates, logger)

	candSvc := candidateuc.New(repo, docEmbedder, logger).
		WithDimensions(cfg.Embedding.Dimensions).
		WithConcurrency(cfg.Ingest.Concurrency)
	if cfg.Ranking.RefreshOnWrite != nil && *cfg.Ranking.RefreshOnWrite {
		candSvc = candSvc.WithRefresher(cache)
	}

	return &services{
		store:         store,
		repo:          repo,
		snapshot:      cache,
		docEmbedder:   docEmbedder,
		queryEmbedder: queryEmbedder,
		candidates:    candSvc,
		ranking:       rankinguc.New(rankinguc.NewEngine(logger), queryEmbedder, cache),
		health:        healthuc.New(store, newEmbeddingHealthChecker(queryEmbedder), cache),
	}, nil
}

// buildStore creates the rueidis store and waits until it answers PING.
// Redis and Valkey speak the same protocol for the commands used here.
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (db.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Database.Driver, err)
	}

	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database",
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)
	return store, nil
}

// buildEmbedder assembles the decorator chain: Provider -> Cached -> Instrumented -> Instruction.
func buildEmbedder(
	ctx context.Context,
	cfg *config.Config,
	role string,
	store db.KVStore,
	logger *zap.Logger,
) (domain.Embedder, error) {
	base, err := buildProvider(ctx, &cfg.Embedding, role, logger)
	if err != nil {
		return nil, err
	}

	var embedder domain.Embedder = base
	if cfg.Embedding.Cache && store != nil {
		ttl := time.Duration(cfg.Embedding.CacheTTLSec) * time.Second
		embedder = embcache.New(base, store, cfg.Storage.KeyPrefix, cfg.Embedding.Model+":"+role,
			ttl, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Embedding.Provider, cfg.Embedding.Model, logger)

	instruction := cfg.Embedding.DocumentInstruction
	if role == roleQuery {
		instruction = cfg.Embedding.QueryInstruction
	}
	// Instruction prefix (outermost, so the cache key includes it)
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction), nil
	}
	return embedder, nil
}

func buildProvider(
	ctx context.Context, ec *config.EmbeddingConfig, role string, logger *zap.Logger,
) (domain.Embedder, error) {
	switch ec.Provider {
	case config.ProviderGemini:
		task := geminiEmb.TaskRetrievalDocument
		if role == roleQuery {
			task = geminiEmb.TaskRetrievalQuery
		}
		emb, err := geminiEmb.NewEmbedder(ctx, &geminiEmb.Config{
			APIKey:     ec.APIKey,
			BaseURL:    ec.BaseURL,
			Model:      ec.Model,
			Dimensions: ec.Dimensions,
			TaskType:   task,
			Logger:     logger,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini embedder: %w", err)
		}
		return emb, nil
	case config.ProviderOpenAI:
		return openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     ec.APIKey,
			BaseURL:    ec.BaseURL,
			Model:      ec.Model,
			Dimensions: ec.Dimensions,
			Provider:   ec.Provider,
			Logger:     logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", ec.Provider)
	}
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

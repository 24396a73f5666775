package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/enterpriseai/knowledge-retrieval/internal/config"
	"github.com/enterpriseai/knowledge-retrieval/internal/core/ports"
	"github.com/enterpriseai/knowledge-retrieval/internal/core/usecase"
	"github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/cache"
	"github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/chunking"
	ollamaembed "github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/embedding/ollama"
	openaiembed "github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/embedding/openai"
	resilientembed "github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/embedding/resilient"
	"github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/embedding/stub"
	natsqueue "github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/queue/nats"
	noopqueue "github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/queue/noop"
	memlog "github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/querylog/memory"
	pglog "github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/querylog/postgres"
	"github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/resilience"
	"github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/scoring"
	memvec "github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/vector/memory"
	"github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/vector/qdrant"
	resilientvec "github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/vector/resilient"
	"github.com/enterpriseai/knowledge-retrieval/internal/observability/metrics"
)

const serviceName = "knowledge-retrieval"

// App holds the wired retrieval engine. Everything is constructed once here
// and passed explicitly; there is no process-wide singleton.
type App struct {
	Config config.Config

	IngestUC    ports.KnowledgeIngestor
	QueryUC     ports.KnowledgeQueryService
	AnalyticsUC ports.AnalyticsReader

	MetricsHandler http.Handler

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	engineMetrics := metrics.NewEngineMetrics(serviceName)

	embedder := buildEmbedder(cfg, resilience.NewExecutor(resilience.EmbeddingProfile()), engineMetrics)
	vectorDB := buildVectorStore(cfg, resilience.NewExecutor(resilience.SearchProfile()))

	docCache := cache.NewDocumentCache()
	queryCache := cache.NewQueryCache(cfg.QueryCacheTTL)

	queryLog, closeQueryLog, err := buildQueryLog(ctx, cfg)
	if err != nil {
		return nil, err
	}

	notifier, closeNotifier := buildNotifier(cfg, resilience.NewExecutor(resilience.DefaultConfig()))

	chunker := chunking.NewSplitter(cfg.MaxChunkSize)
	scorer := scoring.NewScorer()

	ingestUC := usecase.NewIngestUseCase(chunker, scorer, embedder, vectorDB, docCache, notifier, engineMetrics)
	queryUC := usecase.NewQueryUseCase(embedder, vectorDB, queryCache, queryLog, engineMetrics, cfg.DefaultMaxResults)
	analyticsUC := usecase.NewAnalyticsUseCase(
		engineMetrics, docCache, queryCache, embedder, vectorDB, queryLog, cfg.RecentQueriesLimit,
	)

	return &App{
		Config: cfg,

		IngestUC:    ingestUC,
		QueryUC:     queryUC,
		AnalyticsUC: analyticsUC,

		MetricsHandler: engineMetrics.Handler(),

		closeFn: func() {
			closeNotifier()
			closeQueryLog()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// buildEmbedder selects the embedding provider. Remote providers are
// guarded by the resilience executor and degrade to a constant vector on
// failure; misconfiguration falls back to the deterministic stub instead of
// refusing to start.
func buildEmbedder(cfg config.Config, executor *resilience.Executor, engineMetrics *metrics.EngineMetrics) ports.Embedder {
	var primary ports.Embedder
	switch cfg.EmbeddingProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			slog.Warn("openai_api_key_missing", "fallback", "stub")
			return stub.NewEmbedder(cfg.EmbeddingDim)
		}
		primary = openaiembed.New(cfg.OpenAIAPIKey, cfg.OpenAIEmbedModel, cfg.EmbeddingDim)
	case "ollama":
		primary = ollamaembed.New(cfg.OllamaURL, cfg.OllamaEmbedModel, cfg.EmbeddingDim, cfg.EmbedTimeout)
	default:
		return stub.NewEmbedder(cfg.EmbeddingDim)
	}

	guarded := resilientembed.Wrap(primary, executor, cfg.EmbedTimeout)
	return stub.NewFallbackEmbedder(guarded, engineMetrics.ObserveEmbeddingFallback)
}

func buildVectorStore(cfg config.Config, executor *resilience.Executor) ports.VectorStore {
	if cfg.VectorBackend == "qdrant" {
		client := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection, cfg.VectorTimeout)
		return resilientvec.Wrap(client, executor, cfg.VectorTimeout)
	}
	return memvec.NewStore()
}

func buildQueryLog(ctx context.Context, cfg config.Config) (ports.QueryLog, func(), error) {
	if cfg.PostgresDSN == "" {
		return memlog.NewLog(cfg.RecentQueriesLimit * 5), func() {}, nil
	}

	db, err := pglog.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := pglog.NewQueryLogRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ensure query log schema: %w", err)
	}
	return repo, func() { _ = db.Close() }, nil
}

func buildNotifier(cfg config.Config, executor *resilience.Executor) (ports.EventNotifier, func()) {
	if cfg.NATSURL == "" {
		return noopqueue.NewNotifier(), func() {}
	}

	notifier, err := natsqueue.New(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		slog.Warn("nats_unavailable", "error", err)
		return noopqueue.NewNotifier(), func() {}
	}
	return notifier, notifier.Close
}

package usecase

import (
	"context"
	"log/slog"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
	"github.com/enterpriseai/knowledge-retrieval/internal/core/ports"
)

// AnalyticsUseCase assembles the read-only introspection payload.
type AnalyticsUseCase struct {
	metrics     ports.MetricsTracker
	docCache    ports.DocumentCache
	queryCache  ports.QueryCache
	embedder    ports.Embedder
	vectorDB    ports.VectorStore
	queryLog    ports.QueryLog
	recentLimit int
}

func NewAnalyticsUseCase(
	metrics ports.MetricsTracker,
	docCache ports.DocumentCache,
	queryCache ports.QueryCache,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	queryLog ports.QueryLog,
	recentLimit int,
) *AnalyticsUseCase {
	if recentLimit <= 0 {
		recentLimit = 20
	}
	return &AnalyticsUseCase{
		metrics:     metrics,
		docCache:    docCache,
		queryCache:  queryCache,
		embedder:    embedder,
		vectorDB:    vectorDB,
		queryLog:    queryLog,
		recentLimit: recentLimit,
	}
}

func (uc *AnalyticsUseCase) SystemAnalytics(ctx context.Context) (*domain.SystemAnalytics, error) {
	recent, err := uc.queryLog.Recent(ctx, uc.recentLimit)
	if err != nil {
		slog.Warn("query_log_recent_failed", "error", err)
		recent = nil
	}
	if recent == nil {
		recent = []domain.QueryLogEntry{}
	}

	return &domain.SystemAnalytics{
		Performance: uc.metrics.Snapshot(),
		KnowledgeBase: domain.KnowledgeBaseStats{
			TotalChunks:     uc.metrics.KnowledgeBaseSize(),
			DocumentsCached: uc.docCache.Len(),
			QueriesCached:   uc.queryCache.Len(),
		},
		RecentQueries: recent,
		SystemHealth: domain.SystemHealth{
			VectorDBAvailable: uc.vectorDB.Ping(ctx) == nil,
			EmbeddingProvider: uc.embedder.Name(),
			VectorBackend:     uc.vectorDB.Name(),
			QueryLogBackend:   uc.queryLog.Name(),
		},
	}, nil
}

package ports

import (
	"context"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
)

// KnowledgeIngestor is the inbound contract for document ingestion.
type KnowledgeIngestor interface {
	IngestDocument(ctx context.Context, content string, metadata map[string]any, documentType string) (*domain.IngestionResult, error)
}

// KnowledgeQueryService is the inbound contract for retrieval queries.
type KnowledgeQueryService interface {
	QueryKnowledgeBase(ctx context.Context, query domain.RetrievalQuery) (*domain.RetrievalResponse, error)
}

// AnalyticsReader is the inbound read model for system introspection.
type AnalyticsReader interface {
	SystemAnalytics(ctx context.Context) (*domain.SystemAnalytics, error)
}

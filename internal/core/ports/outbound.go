package ports

import (
	"context"
	"time"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
)

// Embedder builds vectors for chunk and query text. Implementations must be
// deterministic for identical input so cache behavior stays predictable.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Name() string
}

// VectorStore persists (embedding, text, metadata) triples and performs
// approximate top-K similarity search. Hit distances are normalized cosine
// distances in [0,1]. Upserts are keyed by chunk id and overwrite-safe.
type VectorStore interface {
	UpsertChunks(ctx context.Context, chunks []domain.Chunk) error
	Search(ctx context.Context, queryVector []float32, limit int, filter domain.SearchFilter) ([]domain.ScoredChunk, error)
	Ping(ctx context.Context) error
	Name() string
}

// Chunker splits document text into bounded-size, ordered pieces.
type Chunker interface {
	Split(text string) []string
}

// RelevanceScorer estimates how useful a chunk is for business
// decision-making, in [0,1].
type RelevanceScorer interface {
	Score(chunkText string, metadata map[string]any) float64
}

// DocumentCache remembers ingested documents by content hash. Entries never
// expire; memory grows until process restart unless an external sweep is
// added.
type DocumentCache interface {
	Get(documentID string) (domain.CachedDocument, bool)
	Put(documentID string, entry domain.CachedDocument)
	Len() int
}

// QueryCache holds finished responses by query hash. Eviction is lazy:
// GetFresh treats expired entries as absent but does not remove other stale
// entries, so a background sweeper can be added later without changing call
// sites.
type QueryCache interface {
	GetFresh(queryHash string, now time.Time) (*domain.RetrievalResponse, bool)
	Put(queryHash string, response *domain.RetrievalResponse, now time.Time)
	Len() int
}

// QueryLog records answered queries for the analytics endpoint.
type QueryLog interface {
	Record(ctx context.Context, entry domain.QueryLogEntry) error
	Recent(ctx context.Context, limit int) ([]domain.QueryLogEntry, error)
	Name() string
}

// EventNotifier publishes best-effort ingestion events for external
// collaborators. Publish failures never fail ingestion.
type EventNotifier interface {
	DocumentIndexed(ctx context.Context, documentID string, chunkCount int) error
}

// MetricsTracker keeps running throughput and latency counters.
type MetricsTracker interface {
	ObserveIngest(duration time.Duration, cached bool, storageDegraded bool)
	ObserveQuery(duration time.Duration, cacheHit bool)
	AddKnowledgeBaseChunks(n int)
	Snapshot() domain.PerformanceMetrics
	KnowledgeBaseSize() int64
}

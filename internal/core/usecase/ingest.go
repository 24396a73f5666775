package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
	"github.com/enterpriseai/knowledge-retrieval/internal/core/ports"
)

// IngestUseCase orchestrates dedup -> chunk -> score -> embed -> store.
type IngestUseCase struct {
	chunker  ports.Chunker
	scorer   ports.RelevanceScorer
	embedder ports.Embedder
	vectorDB ports.VectorStore
	docCache ports.DocumentCache
	notifier ports.EventNotifier
	metrics  ports.MetricsTracker
	now      func() time.Time
}

func NewIngestUseCase(
	chunker ports.Chunker,
	scorer ports.RelevanceScorer,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	docCache ports.DocumentCache,
	notifier ports.EventNotifier,
	metrics ports.MetricsTracker,
) *IngestUseCase {
	return &IngestUseCase{
		chunker:  chunker,
		scorer:   scorer,
		embedder: embedder,
		vectorDB: vectorDB,
		docCache: docCache,
		notifier: notifier,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (uc *IngestUseCase) IngestDocument(
	ctx context.Context,
	content string,
	metadata map[string]any,
	documentType string,
) (*domain.IngestionResult, error) {
	start := uc.now()

	if strings.TrimSpace(content) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ingest document", errors.New("empty content"))
	}

	// The dedup key depends only on content bytes, never on metadata.
	docID := domain.DocumentID(content)
	if entry, ok := uc.docCache.Get(docID); ok {
		uc.metrics.ObserveIngest(uc.now().Sub(start), true, false)
		return &domain.IngestionResult{
			Success:              true,
			DocumentID:           docID,
			ChunksCreated:        len(entry.ChunkIDs),
			ProcessingSeconds:    uc.now().Sub(start).Seconds(),
			BusinessRelevanceAvg: entry.BusinessRelevanceAvg,
			Cached:               true,
		}, nil
	}

	pieces := uc.chunker.Split(content)
	if len(pieces) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ingest document", errors.New("chunking produced zero chunks"))
	}

	chunks, relevanceAvg := uc.buildChunks(docID, pieces, metadata, documentType, start)

	vectors, err := uc.embedder.Embed(ctx, pieces)
	if err != nil {
		return nil, domain.WrapError(domain.ErrProviderUnavailable, "embed chunks", err)
	}
	if len(vectors) != len(chunks) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "embed chunks",
			errors.New("vectors/chunks length mismatch"))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	// The batch write is best effort: on failure the document is still
	// cached locally and reported as ingested. Callers watch
	// system_health.vector_db_available for the durability gap.
	storageErr := uc.vectorDB.UpsertChunks(ctx, chunks)
	if storageErr != nil {
		slog.Error("vector_store_write_failed",
			"doc_id", docID,
			"chunks", len(chunks),
			"error", storageErr,
		)
	} else {
		uc.metrics.AddKnowledgeBaseChunks(len(chunks))
		if err := uc.notifier.DocumentIndexed(ctx, docID, len(chunks)); err != nil {
			slog.Warn("document_indexed_event_failed", "doc_id", docID, "error", err)
		}
	}

	chunkIDs := make([]string, len(chunks))
	for i, chunk := range chunks {
		chunkIDs[i] = chunk.ID
	}
	uc.docCache.Put(docID, domain.CachedDocument{
		ChunkIDs:             chunkIDs,
		Metadata:             metadata,
		BusinessRelevanceAvg: relevanceAvg,
		IngestedAt:           start,
	})

	elapsed := uc.now().Sub(start)
	uc.metrics.ObserveIngest(elapsed, false, storageErr != nil)

	return &domain.IngestionResult{
		Success:              true,
		DocumentID:           docID,
		ChunksCreated:        len(chunks),
		ProcessingSeconds:    elapsed.Seconds(),
		BusinessRelevanceAvg: relevanceAvg,
		Cached:               false,
	}, nil
}

func (uc *IngestUseCase) buildChunks(
	docID string,
	pieces []string,
	metadata map[string]any,
	documentType string,
	ingestedAt time.Time,
) ([]domain.Chunk, float64) {
	chunks := make([]domain.Chunk, len(pieces))
	var relevanceSum float64

	for i, piece := range pieces {
		scoringMeta := mergeMetadata(metadata, map[string]any{"document_type": documentType})
		relevance := uc.scorer.Score(piece, scoringMeta)
		relevanceSum += relevance

		chunkMeta := mergeMetadata(metadata, map[string]any{
			"document_id":        docID,
			"chunk_index":        i,
			"document_type":      documentType,
			"business_relevance": relevance,
			"ingested_at":        ingestedAt.UTC().Format(time.RFC3339),
			"chunk_length":       len(piece),
		})

		chunks[i] = domain.Chunk{
			ID:                domain.ChunkID(docID, i),
			Content:           piece,
			Metadata:          chunkMeta,
			Index:             i,
			DocumentType:      documentType,
			BusinessRelevance: relevance,
		}
	}

	return chunks, relevanceSum / float64(len(pieces))
}

// mergeMetadata copies the caller map and overlays engine fields, so caller
// metadata is never mutated and engine fields always win.
func mergeMetadata(base map[string]any, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

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

// overFetchFactor oversizes the vector search so score-threshold and
// document-type filtering do not starve the final result set.
const overFetchFactor = 2

// QueryUseCase orchestrates embed -> search -> rank -> synthesize.
type QueryUseCase struct {
	embedder          ports.Embedder
	vectorDB          ports.VectorStore
	queryCache        ports.QueryCache
	queryLog          ports.QueryLog
	metrics           ports.MetricsTracker
	defaultMaxResults int
	now               func() time.Time
}

func NewQueryUseCase(
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	queryCache ports.QueryCache,
	queryLog ports.QueryLog,
	metrics ports.MetricsTracker,
	defaultMaxResults int,
) *QueryUseCase {
	if defaultMaxResults <= 0 {
		defaultMaxResults = 5
	}
	return &QueryUseCase{
		embedder:          embedder,
		vectorDB:          vectorDB,
		queryCache:        queryCache,
		queryLog:          queryLog,
		metrics:           metrics,
		defaultMaxResults: defaultMaxResults,
		now:               time.Now,
	}
}

func (uc *QueryUseCase) QueryKnowledgeBase(
	ctx context.Context,
	query domain.RetrievalQuery,
) (*domain.RetrievalResponse, error) {
	start := uc.now()

	if strings.TrimSpace(query.Text) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "query knowledge base", errors.New("empty query text"))
	}
	if query.MaxResults <= 0 {
		query.MaxResults = uc.defaultMaxResults
	}

	queryHash := query.Hash()
	if cached, ok := uc.queryCache.GetFresh(queryHash, start); ok {
		// Cached responses are returned unmodified, no re-ranking.
		uc.metrics.ObserveQuery(uc.now().Sub(start), true)
		uc.recordQuery(ctx, query, cached, true)
		return cached, nil
	}

	queryVector, err := uc.embedder.EmbedQuery(ctx, query.Text)
	if err != nil {
		return nil, domain.WrapError(domain.ErrProviderUnavailable, "embed query", err)
	}

	candidates, err := uc.vectorDB.Search(
		ctx,
		queryVector,
		overFetchFactor*query.MaxResults,
		domain.SearchFilter{DocumentTypes: query.DocumentTypes},
	)
	if err != nil {
		// An unreachable vector store degrades to the deterministic
		// insufficient-information response instead of failing the call.
		slog.Error("vector_search_failed", "error", err)
		candidates = nil
	}

	kept := rankCandidates(candidates, query.MinRelevanceScore, query.DocumentTypes, query.MaxResults)
	answer := synthesizeAnswer(query.Text, query.UserRole, kept)

	sources := make([]domain.Source, 0, len(kept))
	for _, chunk := range kept {
		sources = append(sources, domain.Source{
			ChunkID:           chunk.ID,
			Title:             chunk.Title,
			Content:           truncateContent(chunk.Content, sourceContentPreview),
			DocumentType:      chunk.DocumentType,
			Similarity:        chunk.Similarity,
			BusinessRelevance: chunk.BusinessRelevance,
		})
	}

	response := &domain.RetrievalResponse{
		Answer:            answer,
		Sources:           sources,
		ConfidenceScore:   meanSimilarity(kept),
		ProcessingSeconds: uc.now().Sub(start).Seconds(),
		TokensUsed:        estimateTokens(query.Text, answer, kept),
		BusinessInsights:  extractInsights(query.Text, kept),
	}

	uc.queryCache.Put(queryHash, response, uc.now())
	uc.metrics.ObserveQuery(uc.now().Sub(start), false)
	uc.recordQuery(ctx, query, response, false)

	return response, nil
}

func (uc *QueryUseCase) recordQuery(
	ctx context.Context,
	query domain.RetrievalQuery,
	response *domain.RetrievalResponse,
	cacheHit bool,
) {
	entry := domain.QueryLogEntry{
		QueryText:       query.Text,
		UserRole:        query.UserRole,
		ResultCount:     len(response.Sources),
		ConfidenceScore: response.ConfidenceScore,
		CacheHit:        cacheHit,
		AskedAt:         uc.now().UTC().Format(time.RFC3339),
	}
	if err := uc.queryLog.Record(ctx, entry); err != nil {
		slog.Warn("query_log_record_failed", "error", err)
	}
}

package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
	"github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/cache"
	"github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/chunking"
	"github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/embedding/stub"
	memlog "github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/querylog/memory"
	"github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/scoring"
	memvec "github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/vector/memory"
)

// End-to-end pipeline over the real chunker, scorer, stub embedder and
// in-memory vector store.
func TestIngestThenQueryPipeline(t *testing.T) {
	store := memvec.NewStore()
	metrics := &metricsFake{}
	scorer := scoring.NewScorerAt(func() time.Time {
		return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	})

	ingest := NewIngestUseCase(
		chunking.NewSplitter(500),
		scorer,
		stub.NewEmbedder(64),
		store,
		cache.NewDocumentCache(),
		&notifierFake{},
		metrics,
	)
	query := NewQueryUseCase(
		stub.NewEmbedder(64),
		store,
		cache.NewQueryCache(time.Hour),
		memlog.NewLog(100),
		metrics,
		5,
	)

	content := "Our SaaS churn rate improved 15% this quarter due to better onboarding."
	first, err := ingest.IngestDocument(context.Background(), content, map[string]any{
		"title": "Churn Update",
	}, "strategy")
	if err != nil {
		t.Fatalf("IngestDocument() error = %v", err)
	}
	if first.Cached || first.ChunksCreated == 0 {
		t.Fatalf("unexpected ingestion result: %#v", first)
	}
	// strategy type boost alone clears 0.3.
	if first.BusinessRelevanceAvg <= 0.3 {
		t.Fatalf("expected boosted relevance, got %f", first.BusinessRelevanceAvg)
	}

	// Re-ingesting identical content with different metadata is a cached
	// no-op: same id, no new vector-store writes.
	sizeBefore := store.Len()
	second, err := ingest.IngestDocument(context.Background(), content, map[string]any{
		"title": "Duplicate",
	}, "technical")
	if err != nil {
		t.Fatalf("second IngestDocument() error = %v", err)
	}
	if !second.Cached || second.DocumentID != first.DocumentID {
		t.Fatalf("expected cached duplicate, got %#v", second)
	}
	if store.Len() != sizeBefore {
		t.Fatalf("expected no new writes, store grew %d -> %d", sizeBefore, store.Len())
	}

	response, err := query.QueryKnowledgeBase(context.Background(), domain.RetrievalQuery{
		Text:     "How can we reduce churn?",
		UserRole: "executive",
	})
	if err != nil {
		t.Fatalf("QueryKnowledgeBase() error = %v", err)
	}
	if len(response.Sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(response.Sources))
	}
	source := response.Sources[0]
	if source.DocumentType != "strategy" || source.Title != "Churn Update" {
		t.Fatalf("unexpected source: %#v", source)
	}
	if source.BusinessRelevance <= 0.3 {
		t.Fatalf("expected relevance boost on source, got %f", source.BusinessRelevance)
	}
	if source.Similarity < 0 || source.Similarity > 1 {
		t.Fatalf("similarity out of range: %f", source.Similarity)
	}
	if !strings.HasPrefix(response.Answer, "From a strategic business perspective: ") {
		t.Fatalf("expected executive prefix, got %q", response.Answer)
	}

	foundAlignment := false
	for _, insight := range response.BusinessInsights {
		if strings.Contains(insight, "strategic alignment") {
			foundAlignment = true
		}
	}
	if !foundAlignment {
		t.Fatalf("expected strategic alignment insight, got %#v", response.BusinessInsights)
	}

	// Identical re-query is served from cache unchanged.
	cached, err := query.QueryKnowledgeBase(context.Background(), domain.RetrievalQuery{
		Text:     "How can we reduce churn?",
		UserRole: "executive",
	})
	if err != nil {
		t.Fatalf("cached QueryKnowledgeBase() error = %v", err)
	}
	if cached != response {
		t.Fatalf("expected cached response pointer")
	}
}

package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
)

// Store is a brute-force cosine vector store kept entirely in process
// memory. It backs the engine when no external vector database is
// configured and doubles as the test double for the pipeline.
type Store struct {
	mu     sync.RWMutex
	chunks map[string]domain.Chunk
	order  []string
}

func NewStore() *Store {
	return &Store{chunks: make(map[string]domain.Chunk)}
}

func (s *Store) Name() string { return "memory" }

func (s *Store) Ping(context.Context) error { return nil }

// UpsertChunks stores chunks keyed by id. Re-ingesting the same chunk id
// overwrites in place, so concurrent duplicate ingestion stays idempotent.
func (s *Store) UpsertChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		if _, exists := s.chunks[chunk.ID]; !exists {
			s.order = append(s.order, chunk.ID)
		}
		s.chunks[chunk.ID] = chunk
	}
	return nil
}

func (s *Store) Search(
	_ context.Context,
	queryVector []float32,
	limit int,
	filter domain.SearchFilter,
) ([]domain.ScoredChunk, error) {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ScoredChunk, 0, len(s.order))
	for _, id := range s.order {
		chunk := s.chunks[id]
		if !matchesFilter(chunk.DocumentType, filter) {
			continue
		}
		title, _ := chunk.Metadata["title"].(string)
		out = append(out, domain.ScoredChunk{
			ID:                chunk.ID,
			Content:           chunk.Content,
			Title:             title,
			DocumentType:      chunk.DocumentType,
			Metadata:          chunk.Metadata,
			ChunkIndex:        chunk.Index,
			BusinessRelevance: chunk.BusinessRelevance,
			Distance:          cosineDistance(queryVector, chunk.Embedding),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len reports the number of stored chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func matchesFilter(documentType string, filter domain.SearchFilter) bool {
	if len(filter.DocumentTypes) == 0 {
		return true
	}
	for _, t := range filter.DocumentTypes {
		if t == documentType {
			return true
		}
	}
	return false
}

// cosineDistance maps cosine similarity into the normalized [0,1] distance
// the port contract requires.
func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	distance := 1 - similarity
	if distance < 0 {
		return 0
	}
	if distance > 1 {
		return 1
	}
	return distance
}

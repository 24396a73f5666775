package usecase

import (
	"sort"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
)

const (
	similarityWeight = 0.7
	relevanceWeight  = 0.3
)

type rankedChunk struct {
	domain.ScoredChunk
	Similarity float64
	Combined   float64
}

// rankCandidates filters search hits by similarity threshold and document
// type, then orders the survivors by the hybrid score. The sort is stable,
// so ties keep the vector store's original order. The result is truncated to
// limit.
func rankCandidates(
	candidates []domain.ScoredChunk,
	minRelevanceScore float64,
	documentTypes []string,
	limit int,
) []rankedChunk {
	allowed := make(map[string]struct{}, len(documentTypes))
	for _, t := range documentTypes {
		allowed[t] = struct{}{}
	}

	kept := make([]rankedChunk, 0, len(candidates))
	for _, candidate := range candidates {
		similarity := 1 - candidate.Distance
		if similarity < minRelevanceScore {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[candidate.DocumentType]; !ok {
				continue
			}
		}
		kept = append(kept, rankedChunk{
			ScoredChunk: candidate,
			Similarity:  similarity,
			Combined:    similarityWeight*similarity + relevanceWeight*candidate.BusinessRelevance,
		})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Combined > kept[j].Combined
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}

func meanSimilarity(chunks []rankedChunk) float64 {
	if len(chunks) == 0 {
		return 0
	}
	var sum float64
	for _, chunk := range chunks {
		sum += chunk.Similarity
	}
	return sum / float64(len(chunks))
}

func meanRelevance(chunks []rankedChunk) float64 {
	if len(chunks) == 0 {
		return 0
	}
	var sum float64
	for _, chunk := range chunks {
		sum += chunk.BusinessRelevance
	}
	return sum / float64(len(chunks))
}

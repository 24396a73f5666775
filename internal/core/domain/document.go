package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Document is the transient ingestion input. It is never stored as-is; only
// its chunks survive ingestion.
type Document struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Type     string         `json:"document_type"`
}

// Chunk is the unit of embedding and retrieval. Chunks are created once at
// ingestion time and are immutable afterwards; re-ingesting the same content
// is a no-op because the document hash is already cached.
type Chunk struct {
	ID                string         `json:"id"`
	Content           string         `json:"content"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	Embedding         []float32      `json:"-"`
	Index             int            `json:"chunk_index"`
	DocumentType      string         `json:"document_type"`
	BusinessRelevance float64        `json:"business_relevance"`
}

// IngestionResult reports the outcome of a single ingestion call.
type IngestionResult struct {
	Success              bool    `json:"success"`
	DocumentID           string  `json:"doc_id"`
	ChunksCreated        int     `json:"chunks_created"`
	ProcessingSeconds    float64 `json:"processing_time"`
	BusinessRelevanceAvg float64 `json:"business_relevance_avg"`
	Cached               bool    `json:"cached"`
}

// CachedDocument is the document-cache entry. Chunk contents are not retained
// here; the vector store owns them. The entry keeps just enough state to
// answer a repeated ingest of identical content without re-processing.
type CachedDocument struct {
	ChunkIDs             []string
	Metadata             map[string]any
	BusinessRelevanceAvg float64
	IngestedAt           time.Time
}

// DocumentID derives the stable dedup key for raw content. It depends only
// on the content bytes, never on metadata.
func DocumentID(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// ChunkID builds the canonical chunk identifier for a document chunk.
func ChunkID(documentID string, index int) string {
	return documentID + "_chunk_" + strconv.Itoa(index)
}

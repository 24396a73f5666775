package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// RetrievalQuery is a single knowledge-base question. Created per call,
// never persisted.
type RetrievalQuery struct {
	Text              string   `json:"text"`
	MaxResults        int      `json:"max_results"`
	MinRelevanceScore float64  `json:"min_relevance_score"`
	DocumentTypes     []string `json:"document_types,omitempty"`
	BusinessContext   string   `json:"business_context,omitempty"`
	UserRole          string   `json:"user_role,omitempty"`
}

// Hash returns the cache key for the query. All ranking-relevant fields
// participate; document types are sorted so set order does not matter.
func (q RetrievalQuery) Hash() string {
	types := append([]string(nil), q.DocumentTypes...)
	sort.Strings(types)

	var b strings.Builder
	b.WriteString(q.Text)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(q.MaxResults))
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(q.MinRelevanceScore, 'f', -1, 64))
	b.WriteByte('|')
	b.WriteString(strings.Join(types, ","))
	b.WriteByte('|')
	b.WriteString(q.BusinessContext)
	b.WriteByte('|')
	b.WriteString(q.UserRole)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// SearchFilter narrows a vector-store search by chunk metadata.
type SearchFilter struct {
	DocumentTypes []string
}

// ScoredChunk is a vector-store search hit. Distance is the normalized
// cosine distance in [0,1]; adapters convert their native score before
// returning, so similarity is always 1 - Distance.
type ScoredChunk struct {
	ID                string         `json:"id"`
	Content           string         `json:"content"`
	Title             string         `json:"title,omitempty"`
	DocumentType      string         `json:"document_type"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	ChunkIndex        int            `json:"chunk_index"`
	BusinessRelevance float64        `json:"business_relevance"`
	Distance          float64        `json:"distance"`
}

// Source is a derived, truncated view of a retrieved chunk included in a
// response.
type Source struct {
	ChunkID           string  `json:"chunk_id"`
	Title             string  `json:"title,omitempty"`
	Content           string  `json:"content"`
	DocumentType      string  `json:"document_type"`
	Similarity        float64 `json:"similarity"`
	BusinessRelevance float64 `json:"business_relevance"`
}

// RetrievalResponse is the ranked answer to a RetrievalQuery. Immutable once
// constructed; cached by query hash for a fixed TTL.
type RetrievalResponse struct {
	Answer            string   `json:"answer"`
	Sources           []Source `json:"sources"`
	ConfidenceScore   float64  `json:"confidence_score"`
	ProcessingSeconds float64  `json:"processing_time"`
	TokensUsed        int      `json:"tokens_used"`
	BusinessInsights  []string `json:"business_insights"`
}

// QueryLogEntry is one row of the recent-queries log surfaced by the
// analytics endpoint.
type QueryLogEntry struct {
	QueryText       string  `json:"query_text"`
	UserRole        string  `json:"user_role,omitempty"`
	ResultCount     int     `json:"result_count"`
	ConfidenceScore float64 `json:"confidence_score"`
	CacheHit        bool    `json:"cache_hit"`
	AskedAt         string  `json:"asked_at"`
}

// SystemAnalytics is the read-only introspection payload.
type SystemAnalytics struct {
	Performance   PerformanceMetrics `json:"performance_metrics"`
	KnowledgeBase KnowledgeBaseStats `json:"knowledge_base_stats"`
	RecentQueries []QueryLogEntry    `json:"recent_queries"`
	SystemHealth  SystemHealth       `json:"system_health"`
}

type PerformanceMetrics struct {
	TotalIngestions    int64   `json:"total_ingestions"`
	TotalQueries       int64   `json:"total_queries"`
	AvgQuerySeconds    float64 `json:"avg_query_seconds"`
	AvgIngestSeconds   float64 `json:"avg_ingest_seconds"`
	QueryCacheHitRate  float64 `json:"query_cache_hit_rate"`
	DocumentCacheHits  int64   `json:"document_cache_hits"`
	StorageWriteErrors int64   `json:"storage_write_errors"`
	EmbeddingFallbacks int64   `json:"embedding_fallbacks"`
}

type KnowledgeBaseStats struct {
	TotalChunks     int64 `json:"total_chunks"`
	DocumentsCached int   `json:"documents_cached"`
	QueriesCached   int   `json:"queries_cached"`
}

type SystemHealth struct {
	VectorDBAvailable bool   `json:"vector_db_available"`
	EmbeddingProvider string `json:"embedding_provider"`
	VectorBackend     string `json:"vector_backend"`
	QueryLogBackend   string `json:"query_log_backend"`
}

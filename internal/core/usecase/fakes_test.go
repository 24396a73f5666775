package usecase

import (
	"context"
	"time"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
)

type chunkerFake struct{}

// Split mimics sentence packing closely enough for pipeline tests: one
// chunk per ". "-separated sentence.
func (f *chunkerFake) Split(text string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(text); i++ {
		if text[i] == '.' && text[i+1] == ' ' {
			if piece := text[start:i]; piece != "" {
				out = append(out, piece)
			}
			start = i + 2
		}
	}
	if piece := text[start:]; piece != "" {
		out = append(out, piece)
	}
	return out
}

type scorerFake struct {
	score float64
}

func (f *scorerFake) Score(string, map[string]any) float64 { return f.score }

type embedderFake struct {
	dim      int
	err      error
	queryErr error
	calls    int
}

func (f *embedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, f.dim)
		vec[0] = 1
		out[i] = vec
	}
	return out, nil
}

func (f *embedderFake) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	vec := make([]float32, f.dim)
	vec[0] = 1
	return vec, nil
}

func (f *embedderFake) Dimension() int { return f.dim }
func (f *embedderFake) Name() string   { return "fake" }

type vectorFake struct {
	upserted   []domain.Chunk
	upsertErr  error
	searchHits []domain.ScoredChunk
	searchErr  error
	pingErr    error

	lastLimit  int
	lastFilter domain.SearchFilter
}

func (f *vectorFake) UpsertChunks(_ context.Context, chunks []domain.Chunk) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, chunks...)
	return nil
}

func (f *vectorFake) Search(
	_ context.Context,
	_ []float32,
	limit int,
	filter domain.SearchFilter,
) ([]domain.ScoredChunk, error) {
	f.lastLimit = limit
	f.lastFilter = filter
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchHits, nil
}

func (f *vectorFake) Ping(context.Context) error { return f.pingErr }
func (f *vectorFake) Name() string               { return "fake" }

type docCacheFake struct {
	entries map[string]domain.CachedDocument
}

func newDocCacheFake() *docCacheFake {
	return &docCacheFake{entries: make(map[string]domain.CachedDocument)}
}

func (f *docCacheFake) Get(id string) (domain.CachedDocument, bool) {
	entry, ok := f.entries[id]
	return entry, ok
}

func (f *docCacheFake) Put(id string, entry domain.CachedDocument) { f.entries[id] = entry }
func (f *docCacheFake) Len() int                                   { return len(f.entries) }

type queryCacheFake struct {
	entries map[string]*domain.RetrievalResponse
	puts    int
}

func newQueryCacheFake() *queryCacheFake {
	return &queryCacheFake{entries: make(map[string]*domain.RetrievalResponse)}
}

func (f *queryCacheFake) GetFresh(hash string, _ time.Time) (*domain.RetrievalResponse, bool) {
	response, ok := f.entries[hash]
	return response, ok
}

func (f *queryCacheFake) Put(hash string, response *domain.RetrievalResponse, _ time.Time) {
	f.puts++
	f.entries[hash] = response
}

func (f *queryCacheFake) Len() int { return len(f.entries) }

type queryLogFake struct {
	entries []domain.QueryLogEntry
	err     error
}

func (f *queryLogFake) Record(_ context.Context, entry domain.QueryLogEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *queryLogFake) Recent(_ context.Context, limit int) ([]domain.QueryLogEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	return f.entries[:limit], nil
}

func (f *queryLogFake) Name() string { return "fake" }

type notifierFake struct {
	documentID string
	chunkCount int
	calls      int
	err        error
}

func (f *notifierFake) DocumentIndexed(_ context.Context, documentID string, chunkCount int) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.documentID = documentID
	f.chunkCount = chunkCount
	return nil
}

type metricsFake struct {
	ingestCalls     int
	ingestCached    int
	ingestDegraded  int
	queryCalls      int
	queryCacheHits  int
	chunksAdded     int
	snapshot        domain.PerformanceMetrics
	knowledgeChunks int64
}

func (f *metricsFake) ObserveIngest(_ time.Duration, cached bool, storageDegraded bool) {
	f.ingestCalls++
	if cached {
		f.ingestCached++
	}
	if storageDegraded {
		f.ingestDegraded++
	}
}

func (f *metricsFake) ObserveQuery(_ time.Duration, cacheHit bool) {
	f.queryCalls++
	if cacheHit {
		f.queryCacheHits++
	}
}

func (f *metricsFake) AddKnowledgeBaseChunks(n int) { f.chunksAdded += n }

func (f *metricsFake) Snapshot() domain.PerformanceMetrics { return f.snapshot }

func (f *metricsFake) KnowledgeBaseSize() int64 { return f.knowledgeChunks }

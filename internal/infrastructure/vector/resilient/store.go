package resilient

import (
	"context"
	"time"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
	"github.com/enterpriseai/knowledge-retrieval/internal/core/ports"
	"github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/resilience"
)

// Store guards a remote vector store with a per-call timeout, bounded
// retries and a circuit breaker.
type Store struct {
	inner    ports.VectorStore
	executor *resilience.Executor
	timeout  time.Duration
}

func Wrap(inner ports.VectorStore, executor *resilience.Executor, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Store{inner: inner, executor: executor, timeout: timeout}
}

func (s *Store) Name() string { return s.inner.Name() }

func (s *Store) Ping(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.Ping(callCtx)
}

func (s *Store) UpsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	return s.executor.Execute(ctx, "vector.upsert", func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return s.inner.UpsertChunks(callCtx, chunks)
	}, resilience.ClassifyTransportError)
}

func (s *Store) Search(
	ctx context.Context,
	queryVector []float32,
	limit int,
	filter domain.SearchFilter,
) ([]domain.ScoredChunk, error) {
	var out []domain.ScoredChunk
	err := s.executor.Execute(ctx, "vector.search", func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		hits, err := s.inner.Search(callCtx, queryVector, limit, filter)
		if err != nil {
			return err
		}
		out = hits
		return nil
	}, resilience.ClassifyTransportError)
	if err != nil {
		return nil, err
	}
	return out, nil
}

package resilient

import (
	"context"
	"time"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/ports"
	"github.com/enterpriseai/knowledge-retrieval/internal/infrastructure/resilience"
)

// Embedder guards a remote embedding provider with a per-call timeout,
// bounded retries and a circuit breaker, so a hung provider cannot block the
// pipeline indefinitely.
type Embedder struct {
	inner    ports.Embedder
	executor *resilience.Executor
	timeout  time.Duration
}

func Wrap(inner ports.Embedder, executor *resilience.Executor, timeout time.Duration) *Embedder {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Embedder{inner: inner, executor: executor, timeout: timeout}
}

func (e *Embedder) Name() string   { return e.inner.Name() }
func (e *Embedder) Dimension() int { return e.inner.Dimension() }

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := e.executor.Execute(ctx, "embedder.embed", func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		vectors, err := e.inner.Embed(callCtx, texts)
		if err != nil {
			return err
		}
		out = vectors
		return nil
	}, resilience.ClassifyTransportError)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := e.executor.Execute(ctx, "embedder.embed_query", func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		vector, err := e.inner.EmbedQuery(callCtx, text)
		if err != nil {
			return err
		}
		out = vector
		return nil
	}, resilience.ClassifyTransportError)
	if err != nil {
		return nil, err
	}
	return out, nil
}

package stub

import (
	"context"
	"log/slog"
	"math"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/ports"
)

// FallbackEmbedder degrades instead of failing: when the primary provider
// errors, it substitutes a fixed constant unit vector of the expected
// dimensionality so ingestion and query keep functioning with reduced
// ranking quality.
type FallbackEmbedder struct {
	primary   ports.Embedder
	dim       int
	onDegrade func()
}

func NewFallbackEmbedder(primary ports.Embedder, onDegrade func()) *FallbackEmbedder {
	return &FallbackEmbedder{
		primary:   primary,
		dim:       primary.Dimension(),
		onDegrade: onDegrade,
	}
}

func (f *FallbackEmbedder) Name() string   { return f.primary.Name() }
func (f *FallbackEmbedder) Dimension() int { return f.dim }

func (f *FallbackEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := f.primary.Embed(ctx, texts)
	if err == nil && len(vectors) == len(texts) {
		return vectors, nil
	}
	f.degrade("embed", err)

	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = f.constantVector()
	}
	return out, nil
}

func (f *FallbackEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := f.primary.EmbedQuery(ctx, text)
	if err == nil && len(vector) > 0 {
		return vector, nil
	}
	f.degrade("embed_query", err)
	return f.constantVector(), nil
}

func (f *FallbackEmbedder) constantVector() []float32 {
	value := float32(1 / math.Sqrt(float64(f.dim)))
	vec := make([]float32, f.dim)
	for i := range vec {
		vec[i] = value
	}
	return vec
}

func (f *FallbackEmbedder) degrade(operation string, err error) {
	slog.Warn("embedding_fallback", "operation", operation, "provider", f.primary.Name(), "error", err)
	if f.onDegrade != nil {
		f.onDegrade()
	}
}

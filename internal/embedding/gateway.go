package embedding

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Gateway wraps an Embedder and absorbs its failures.
//
// Embedding is advisory to classification: callers must never crash because
// the embedding backend is unavailable. Any provider error or empty result
// yields the canonical zero vector, which scores 0 against everything and so
// disables retrieval for that text without failing the overall operation.
type Gateway struct {
	embedder  Embedder
	dims      int
	logger    *slog.Logger
	calls     atomic.Int64
	fallbacks atomic.Int64
}

// NewGateway creates a gateway around the given embedder. A nil embedder is
// allowed (embeddings disabled): every call returns the zero vector.
func NewGateway(embedder Embedder, dims int, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if embedder != nil {
		dims = embedder.Dims()
	}
	return &Gateway{embedder: embedder, dims: dims, logger: logger}
}

// Dims returns the canonical vector dimension.
func (g *Gateway) Dims() int { return g.dims }

// Embed turns text into a vector. It never fails: on any provider error the
// zero vector of the canonical dimension is returned instead.
func (g *Gateway) Embed(ctx context.Context, text string) Vector {
	g.calls.Add(1)
	if g.embedder == nil {
		g.fallbacks.Add(1)
		return ZeroVector(g.dims)
	}
	vec, err := g.embedder.Embed(ctx, text)
	if err != nil {
		g.fallbacks.Add(1)
		g.logger.Warn("embedding failed, using zero vector", "error", err)
		return ZeroVector(g.dims)
	}
	if len(vec) == 0 {
		g.fallbacks.Add(1)
		g.logger.Warn("embedding returned empty vector, using zero vector")
		return ZeroVector(g.dims)
	}
	return vec
}

// Calls returns how many embed calls have been made through the gateway.
func (g *Gateway) Calls() int64 { return g.calls.Load() }

// Fallbacks returns how many calls were absorbed into the zero-vector path.
func (g *Gateway) Fallbacks() int64 { return g.fallbacks.Load() }

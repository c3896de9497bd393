// Package search finds thoughts by semantic similarity or literal substring.
package search

import (
	"context"
	"strings"

	"github.com/CyberDoctor2023/Life-Orbit/internal/embedding"
	"github.com/CyberDoctor2023/Life-Orbit/internal/index"
	"github.com/CyberDoctor2023/Life-Orbit/internal/model"
)

// Options tune a search call.
type Options struct {
	Limit     int
	Threshold float64
	Semantic  bool
}

// DefaultOptions returns the standard search tuning.
func DefaultOptions() Options {
	return Options{Limit: 5, Threshold: 0.5, Semantic: true}
}

// Searcher runs queries against a caller-supplied snapshot of thoughts.
type Searcher struct {
	gateway *embedding.Gateway
}

// New creates a Searcher over the given embedding gateway.
func New(gateway *embedding.Gateway) *Searcher {
	return &Searcher{gateway: gateway}
}

// Search dispatches to the semantic or literal path per opts.Semantic.
func (s *Searcher) Search(ctx context.Context, query string, thoughts []model.Thought, opts Options) []model.Thought {
	if opts.Semantic {
		return s.Semantic(ctx, query, thoughts, opts.Limit, opts.Threshold)
	}
	return Literal(query, thoughts)
}

// Semantic embeds the query and returns up to limit thoughts whose cosine
// similarity is at least threshold, best first, each annotated with its
// score. The annotation is ephemeral result metadata and must not be
// persisted. A blank query returns nil without touching the embedder.
func (s *Searcher) Semantic(ctx context.Context, query string, thoughts []model.Thought, limit int, threshold float64) []model.Thought {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	queryVector := s.gateway.Embed(ctx, query)

	scored := index.TopK(queryVector, thoughts, limit, threshold)
	results := make([]model.Thought, 0, len(scored))
	for _, sc := range scored {
		t := sc.Thought
		t.Similarity = sc.Score
		results = append(results, t)
	}
	return results
}

// Literal returns thoughts whose content contains the query, matched
// case-insensitively. No embedding or ranking is involved; input order
// is preserved.
func Literal(query string, thoughts []model.Thought) []model.Thought {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var results []model.Thought
	for _, t := range thoughts {
		if strings.Contains(strings.ToLower(t.Content), q) {
			results = append(results, t)
		}
	}
	return results
}

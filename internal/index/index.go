// Package index ranks thoughts against a query vector.
//
// The index is a logical view, never persisted: it is recomputed on demand
// from whatever snapshot of thoughts the caller supplies, so the ranking
// input can never diverge from the visible note set.
package index

import (
	"sort"

	"github.com/CyberDoctor2023/Life-Orbit/internal/embedding"
	"github.com/CyberDoctor2023/Life-Orbit/internal/model"
)

// Scored pairs a thought with its similarity to the query vector.
type Scored struct {
	Thought model.Thought
	Score   float64
}

// Rank scores every candidate that carries a vector against the query and
// returns them in descending score order. Candidates without a vector are
// never scored and never returned. The sort is stable: ties keep the
// candidates' relative order as given.
func Rank(query embedding.Vector, candidates []model.Thought) []Scored {
	scored := make([]Scored, 0, len(candidates))
	for _, t := range candidates {
		if !t.HasVector() {
			continue
		}
		scored = append(scored, Scored{
			Thought: t,
			Score:   embedding.CosineSimilarity(query, t.Vector),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// TopK returns at most k entries from Rank, filtered to score >= minScore,
// preserving descending order. Pass a very negative minScore to disable
// the threshold.
func TopK(query embedding.Vector, candidates []model.Thought, k int, minScore float64) []Scored {
	ranked := Rank(query, candidates)
	out := make([]Scored, 0, k)
	for _, s := range ranked {
		if s.Score < minScore {
			continue
		}
		out = append(out, s)
		if len(out) == k {
			break
		}
	}
	return out
}

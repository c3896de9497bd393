// Package rag implements the retrieval-augmented classification pipeline.
//
// Each invocation runs five stages in strict order: embed the new text,
// rank it against a snapshot of existing thoughts, check the best match for
// near-duplication, classify with the retrieved context, and assemble a
// candidate record. Concurrent invocations are independent; callers pass a
// consistent snapshot, so two thoughts submitted before either is persisted
// will not see each other as context. That race is accepted.
package rag

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/CyberDoctor2023/Life-Orbit/internal/classify"
	"github.com/CyberDoctor2023/Life-Orbit/internal/embedding"
	"github.com/CyberDoctor2023/Life-Orbit/internal/index"
	"github.com/CyberDoctor2023/Life-Orbit/internal/model"
)

// Outcome distinguishes how a pipeline run ended.
type Outcome string

const (
	// OutcomeClassified means the external classifier assigned the level.
	OutcomeClassified Outcome = "classified"
	// OutcomeFallback means the classifier failed and the default
	// SURVIVAL assignment was used. The candidate is still storable.
	OutcomeFallback Outcome = "fallback"
	// OutcomeDuplicate means the thought was rejected as a near-duplicate
	// before any record was created. Nothing should be persisted.
	OutcomeDuplicate Outcome = "duplicate"
)

// FallbackReasoning is stored when the classification backend is unavailable.
const FallbackReasoning = "system busy, default classification"

// Result is the outcome of one pipeline invocation.
type Result struct {
	Outcome   Outcome
	Candidate *model.Thought // nil when Outcome is OutcomeDuplicate
	Retrieved []index.Scored // the context set, descending similarity
	// BestScore is the highest retrieved similarity, 0 with no context.
	BestScore float64
}

// Options tune the pipeline.
type Options struct {
	TopK               int
	DuplicateThreshold float64
}

// DefaultOptions returns the standard pipeline tuning.
func DefaultOptions() Options {
	return Options{TopK: 5, DuplicateThreshold: 0.96}
}

// Pipeline orchestrates embedding, retrieval, and classification.
type Pipeline struct {
	gateway    *embedding.Gateway
	classifier classify.Classifier
	opts       Options
	logger     *slog.Logger

	mu      sync.Mutex
	entropy *rand.Rand
}

// New creates a pipeline. A nil classifier means every run takes the
// fallback branch, which keeps the engine usable offline.
func New(gateway *embedding.Gateway, classifier classify.Classifier, opts Options, logger *slog.Logger) *Pipeline {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.DuplicateThreshold <= 0 {
		opts.DuplicateThreshold = 0.96
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		gateway:    gateway,
		classifier: classifier,
		opts:       opts,
		logger:     logger,
		entropy:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *Pipeline) newID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), p.entropy).String()
}

// Process runs the full pipeline for one new thought against a snapshot of
// existing thoughts. It returns an error only for empty input; external
// failures are absorbed into the fallback branches.
func (p *Pipeline) Process(ctx context.Context, content string, snapshot []model.Thought) (*Result, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	// Stage 1: embed. Never fails; a zero vector degrades retrieval to
	// all-zero similarities, which is accepted.
	vector := p.gateway.Embed(ctx, content)

	// Stage 2: retrieve the context set.
	retrieved := index.TopK(vector, snapshot, p.opts.TopK, math.Inf(-1))

	best := 0.0
	if len(retrieved) > 0 {
		best = retrieved[0].Score
	}

	// Stage 3: duplicate check. Stops the pipeline before any record
	// exists; the caller surfaces this as a rejection, not an error.
	if best > p.opts.DuplicateThreshold {
		p.logger.Info("duplicate thought rejected",
			"best_score", best, "match_id", retrieved[0].Thought.ID)
		return &Result{Outcome: OutcomeDuplicate, Retrieved: retrieved, BestScore: best}, nil
	}

	// Stage 4: classify with the retrieved context.
	outcome := OutcomeClassified
	level := model.LevelSurvival
	reasoning := FallbackReasoning

	if p.classifier != nil {
		pairs := make([]classify.ContextPair, 0, len(retrieved))
		for _, r := range retrieved {
			pairs = append(pairs, classify.ContextPair{
				Similarity: r.Score,
				Content:    r.Thought.Content,
			})
		}
		res, err := p.classifier.Classify(ctx, content, pairs)
		if err != nil {
			outcome = OutcomeFallback
			p.logger.Warn("classification failed, using default", "error", err)
		} else {
			level = res.Level
			reasoning = res.Reasoning
		}
	} else {
		outcome = OutcomeFallback
	}

	// Stage 5: assemble the candidate record.
	connections := make([]string, 0, len(retrieved))
	for _, r := range retrieved {
		connections = append(connections, r.Thought.ID)
	}
	candidate := &model.Thought{
		ID:          p.newID(),
		Content:     content,
		Level:       level,
		Timestamp:   time.Now().UTC(),
		Reasoning:   reasoning,
		Completed:   false,
		Connections: connections,
		Vector:      vector,
	}

	return &Result{
		Outcome:   outcome,
		Candidate: candidate,
		Retrieved: retrieved,
		BestScore: best,
	}, nil
}

package rag

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/CyberDoctor2023/Life-Orbit/internal/classify"
	"github.com/CyberDoctor2023/Life-Orbit/internal/embedding"
	"github.com/CyberDoctor2023/Life-Orbit/internal/model"
)

// mapEmbedder returns a fixed vector per text, so identical content embeds
// identically and similarity against itself is 1.
type mapEmbedder struct {
	vectors map[string]embedding.Vector
	dims    int
}

func (m *mapEmbedder) Embed(_ context.Context, text string) (embedding.Vector, error) {
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no vector for %q", text)
}

func (m *mapEmbedder) Dims() int { return m.dims }

type fakeClassifier struct {
	result *classify.Result
	err    error
	calls  int
	pairs  []classify.ContextPair
}

func (f *fakeClassifier) Classify(_ context.Context, _ string, pairs []classify.ContextPair) (*classify.Result, error) {
	f.calls++
	f.pairs = pairs
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestPipeline(e embedding.Embedder, c classify.Classifier) *Pipeline {
	gw := embedding.NewGateway(e, 3, slog.Default())
	return New(gw, c, DefaultOptions(), slog.Default())
}

func existing(id, content string, vec embedding.Vector) model.Thought {
	return model.Thought{ID: id, Content: content, Level: model.LevelGrowth, Vector: vec}
}

func TestProcess_Classified(t *testing.T) {
	emb := &mapEmbedder{dims: 3, vectors: map[string]embedding.Vector{
		"learn to weld": {0, 1, 0},
	}}
	cls := &fakeClassifier{result: &classify.Result{Level: model.LevelGrowth, Reasoning: "skill building"}}
	p := newTestPipeline(emb, cls)

	snapshot := []model.Thought{
		existing("m1", "buy a welder", embedding.Vector{0.3, 0.9, 0.3}),
		existing("m2", "water plants", embedding.Vector{1, 0, 0}),
	}

	res, err := p.Process(context.Background(), "learn to weld", snapshot)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Outcome != OutcomeClassified {
		t.Fatalf("expected classified outcome, got %s", res.Outcome)
	}
	if res.Candidate == nil {
		t.Fatal("expected candidate")
	}
	if res.Candidate.Level != model.LevelGrowth {
		t.Errorf("expected GROWTH, got %s", res.Candidate.Level)
	}
	if res.Candidate.Reasoning != "skill building" {
		t.Errorf("unexpected reasoning %q", res.Candidate.Reasoning)
	}
	if res.Candidate.ID == "" {
		t.Error("expected assigned id")
	}
	if len(res.Candidate.Vector) != 3 {
		t.Errorf("expected embedding carried on candidate, got %v", res.Candidate.Vector)
	}
	// Connections record the context set, best match first.
	if len(res.Candidate.Connections) != 2 || res.Candidate.Connections[0] != "m1" {
		t.Errorf("unexpected connections %v", res.Candidate.Connections)
	}
	// Context pairs handed to the classifier are in descending similarity order.
	if len(cls.pairs) != 2 || cls.pairs[0].Content != "buy a welder" {
		t.Errorf("unexpected classifier context %+v", cls.pairs)
	}
}

func TestProcess_DuplicateRejected(t *testing.T) {
	vec := embedding.Vector{0.2, 0.5, 0.8}
	emb := &mapEmbedder{dims: 3, vectors: map[string]embedding.Vector{
		"call the dentist": vec,
	}}
	cls := &fakeClassifier{result: &classify.Result{Level: model.LevelSurvival, Reasoning: "x"}}
	p := newTestPipeline(emb, cls)

	snapshot := []model.Thought{
		existing("orig", "call the dentist", vec), // identical vector, similarity 1
	}

	res, err := p.Process(context.Background(), "call the dentist", snapshot)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Outcome != OutcomeDuplicate {
		t.Fatalf("expected duplicate outcome, got %s", res.Outcome)
	}
	if res.Candidate != nil {
		t.Error("duplicate must not produce a candidate record")
	}
	if cls.calls != 0 {
		t.Error("classifier must not be invoked for duplicates")
	}
	if res.BestScore <= 0.96 {
		t.Errorf("expected best score above threshold, got %f", res.BestScore)
	}
}

func TestProcess_ClassifierFailureFallsBack(t *testing.T) {
	emb := &mapEmbedder{dims: 3, vectors: map[string]embedding.Vector{
		"novel idea": {1, 1, 1},
	}}
	cls := &fakeClassifier{err: fmt.Errorf("backend down")}
	p := newTestPipeline(emb, cls)

	res, err := p.Process(context.Background(), "novel idea", nil)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Outcome != OutcomeFallback {
		t.Fatalf("expected fallback outcome, got %s", res.Outcome)
	}
	if res.Candidate.Level != model.LevelSurvival {
		t.Errorf("expected SURVIVAL default, got %s", res.Candidate.Level)
	}
	if res.Candidate.Reasoning == "" {
		t.Error("expected non-empty fallback reasoning")
	}
}

func TestProcess_EmbeddingFailureDegrades(t *testing.T) {
	// No vector registered: the gateway absorbs the failure into a zero
	// vector, retrieval ties at 0, and classification still happens.
	emb := &mapEmbedder{dims: 3}
	cls := &fakeClassifier{result: &classify.Result{Level: model.LevelVision, Reasoning: "aspiration"}}
	p := newTestPipeline(emb, cls)

	snapshot := []model.Thought{
		existing("m1", "old note", embedding.Vector{1, 0, 0}),
	}

	res, err := p.Process(context.Background(), "sail the world", snapshot)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Outcome != OutcomeClassified {
		t.Fatalf("expected classified, got %s", res.Outcome)
	}
	if res.BestScore != 0 {
		t.Errorf("expected zero similarity in degraded mode, got %f", res.BestScore)
	}
	if len(res.Candidate.Vector) != 3 {
		t.Errorf("expected zero vector of canonical dims, got %v", res.Candidate.Vector)
	}
}

func TestProcess_EmptyContent(t *testing.T) {
	p := newTestPipeline(&mapEmbedder{dims: 3}, nil)
	if _, err := p.Process(context.Background(), "  \n ", nil); err != ErrEmptyContent {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestProcess_NilClassifierFallsBack(t *testing.T) {
	emb := &mapEmbedder{dims: 3, vectors: map[string]embedding.Vector{
		"anything": {1, 0, 0},
	}}
	p := newTestPipeline(emb, nil)

	res, err := p.Process(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Outcome != OutcomeFallback {
		t.Errorf("expected fallback with nil classifier, got %s", res.Outcome)
	}
	if res.Candidate.Reasoning != FallbackReasoning {
		t.Errorf("unexpected reasoning %q", res.Candidate.Reasoning)
	}
}

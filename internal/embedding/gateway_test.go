package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
)

type fakeEmbedder struct {
	vec   Vector
	err   error
	dims  int
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) (Vector, error) {
	f.calls++
	return f.vec, f.err
}

func (f *fakeEmbedder) Dims() int { return f.dims }

func TestGateway_Success(t *testing.T) {
	fake := &fakeEmbedder{vec: Vector{1, 2, 3}, dims: 3}
	g := NewGateway(fake, 0, slog.Default())

	got := g.Embed(context.Background(), "hello")
	if len(got) != 3 || got[0] != 1 {
		t.Errorf("expected embedder vector, got %v", got)
	}
	if g.Fallbacks() != 0 {
		t.Errorf("expected no fallbacks, got %d", g.Fallbacks())
	}
}

func TestGateway_ErrorYieldsZeroVector(t *testing.T) {
	fake := &fakeEmbedder{err: fmt.Errorf("quota exceeded"), dims: 4}
	g := NewGateway(fake, 0, slog.Default())

	got := g.Embed(context.Background(), "hello")
	if len(got) != 4 {
		t.Fatalf("expected 4 dims, got %d", len(got))
	}
	for _, x := range got {
		if x != 0 {
			t.Fatal("expected zero vector on failure")
		}
	}
	if g.Fallbacks() != 1 {
		t.Errorf("expected 1 fallback, got %d", g.Fallbacks())
	}
}

func TestGateway_EmptyResultYieldsZeroVector(t *testing.T) {
	fake := &fakeEmbedder{vec: Vector{}, dims: 2}
	g := NewGateway(fake, 0, slog.Default())

	got := g.Embed(context.Background(), "hello")
	if len(got) != 2 || got[0] != 0 || got[1] != 0 {
		t.Errorf("expected zero vector, got %v", got)
	}
}

func TestGateway_NilEmbedder(t *testing.T) {
	g := NewGateway(nil, 5, slog.Default())

	got := g.Embed(context.Background(), "anything")
	if len(got) != 5 {
		t.Fatalf("expected configured dims 5, got %d", len(got))
	}
	if g.Calls() != 1 || g.Fallbacks() != 1 {
		t.Errorf("expected call and fallback counted, got %d/%d", g.Calls(), g.Fallbacks())
	}
}

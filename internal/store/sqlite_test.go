package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/CyberDoctor2023/Life-Orbit/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testThought(id string, ts time.Time) *model.Thought {
	return &model.Thought{
		ID:          id,
		Content:     "content of " + id,
		Level:       model.LevelGrowth,
		Timestamp:   ts,
		Reasoning:   "because",
		Connections: []string{"other-1", "other-2"},
		Vector:      []float32{0.1, 0.2, 0.3},
	}
}

func TestSaveAndGetAll(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	th := testThought("t1", time.Now().UTC())
	if err := s.Save(ctx, th); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("getall: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 thought, got %d", len(got))
	}
	g := got[0]
	if g.Content != th.Content || g.Level != model.LevelGrowth || g.Reasoning != "because" {
		t.Errorf("round trip mismatch: %+v", g)
	}
	if len(g.Vector) != 3 || g.Vector[1] != 0.2 {
		t.Errorf("vector not preserved: %v", g.Vector)
	}
	if len(g.Connections) != 2 || g.Connections[0] != "other-1" {
		t.Errorf("connections not preserved: %v", g.Connections)
	}
	if g.Similarity != 0 {
		t.Error("similarity must never come back from storage")
	}
}

func TestSave_UpsertsByID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	th := testThought("t1", time.Now().UTC())
	s.Save(ctx, th)

	th.Level = model.LevelVision
	th.Completed = true
	if err := s.Save(ctx, th); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, _ := s.GetAll(ctx)
	if len(got) != 1 {
		t.Fatalf("expected 1 thought after upsert, got %d", len(got))
	}
	if got[0].Level != model.LevelVision || !got[0].Completed {
		t.Errorf("upsert did not apply: %+v", got[0])
	}
}

func TestSave_Validation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Save(ctx, &model.Thought{Content: "x", Level: model.LevelGrowth}); err == nil {
		t.Error("expected error for missing id")
	}
	if err := s.Save(ctx, &model.Thought{ID: "a", Level: model.LevelGrowth}); err == nil {
		t.Error("expected error for missing content")
	}
	if err := s.Save(ctx, &model.Thought{ID: "a", Content: "x", Level: "URGENT"}); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestGetAll_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Save(ctx, testThought("old", base))
	s.Save(ctx, testThought("new", base.Add(time.Hour)))
	s.Save(ctx, testThought("mid", base.Add(time.Minute)))

	got, _ := s.GetAll(ctx)
	if len(got) != 3 {
		t.Fatalf("expected 3, got %d", len(got))
	}
	if got[0].ID != "new" || got[1].ID != "mid" || got[2].ID != "old" {
		t.Errorf("not newest first: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	victim := testThought("victim", time.Now().UTC())
	survivor := testThought("survivor", time.Now().UTC())
	survivor.Connections = []string{"victim"}
	s.Save(ctx, victim)
	s.Save(ctx, survivor)

	if err := s.Delete(ctx, "victim"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, _ := s.GetAll(ctx)
	if len(got) != 1 || got[0].ID != "survivor" {
		t.Fatalf("expected only survivor, got %+v", got)
	}
	// Dangling connection ids are tolerated, never repaired.
	if len(got[0].Connections) != 1 || got[0].Connections[0] != "victim" {
		t.Errorf("survivor's connections must keep the dangling id: %v", got[0].Connections)
	}

	// Deleting an absent id is a soft success.
	if err := s.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("delete absent id: %v", err)
	}
}

func TestEvents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var ops []EventOp
	cancel := s.Subscribe(func(e Event) { ops = append(ops, e.Op) })
	defer cancel()

	th := testThought("t1", time.Now().UTC())
	s.Save(ctx, th)
	s.Save(ctx, th)
	s.Delete(ctx, "t1")

	want := []EventOp{OpInsert, OpUpdate, OpDelete}
	if len(ops) != len(want) {
		t.Fatalf("expected %d events, got %d (%v)", len(want), len(ops), ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], ops[i])
		}
	}

	recent := s.RecentEvents()
	if len(recent) == 0 {
		t.Error("expected retained events")
	}
	if recent[0].Op != OpDelete {
		t.Errorf("expected newest first in ring, got %s", recent[0].Op)
	}
}

func TestEvents_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	count := 0
	cancel := s.Subscribe(func(Event) { count++ })
	cancel()

	s.Save(ctx, testThought("t1", time.Now().UTC()))
	if count != 0 {
		t.Errorf("unsubscribed listener still invoked %d times", count)
	}
}

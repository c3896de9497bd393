package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestStats(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "stats.db")
	sqlite, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer sqlite.Close()

	// Stats is part of the Store contract, not just the SQLite type.
	var s Store = sqlite

	now := time.Now().UTC()
	a := testThought("a", now)
	b := testThought("b", now.Add(time.Second))
	b.Completed = true
	c := testThought("c", now.Add(2*time.Second))
	c.Vector = nil

	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := s.Save(ctx, b); err != nil {
		t.Fatalf("save b: %v", err)
	}
	if err := s.Save(ctx, c); err != nil {
		t.Fatalf("save c: %v", err)
	}

	st, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalThoughts != 3 {
		t.Errorf("expected 3 thoughts, got %d", st.TotalThoughts)
	}
	if st.Completed != 1 {
		t.Errorf("expected 1 completed, got %d", st.Completed)
	}
	if st.Embedded != 2 {
		t.Errorf("expected 2 embedded, got %d", st.Embedded)
	}
	if st.LevelCounts["GROWTH"] != 3 {
		t.Errorf("unexpected level counts %v", st.LevelCounts)
	}
	if st.DBSizeBytes <= 0 {
		t.Errorf("expected positive db size, got %d", st.DBSizeBytes)
	}
	if st.DBPath != dbPath {
		t.Errorf("unexpected db path %q", st.DBPath)
	}
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/CyberDoctor2023/Life-Orbit/internal/model"
)

// Export returns every stored thought wrapped in the export envelope.
func (s *SQLiteStore) Export(ctx context.Context) (*Document, error) {
	thoughts, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if thoughts == nil {
		thoughts = []model.Thought{}
	}
	s.events.emit(Event{Op: OpSync, Detail: fmt.Sprintf("exported %d thoughts", len(thoughts)), Time: time.Now()})
	return &Document{
		Engine:     "sqlite",
		Format:     ExportFormat,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Payload:    thoughts,
	}, nil
}

// Import upserts every thought in the document by id, in one transaction.
// A document with neither payload nor data is rejected outright; a failed
// upsert rolls the whole batch back, so the store never partially imports.
// Re-importing an unmodified export is a no-op on content.
func (s *SQLiteStore) Import(ctx context.Context, doc *Document) (int, error) {
	if doc == nil {
		return 0, ErrMalformedImport
	}
	thoughts := doc.Payload
	if thoughts == nil {
		thoughts = doc.Data // legacy key
	}
	if thoughts == nil {
		return 0, ErrMalformedImport
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, t := range thoughts {
		if t.ID == "" || t.Content == "" {
			return 0, fmt.Errorf("import: thought missing id or content")
		}
		level := t.Level
		if !model.ValidLevels[level] {
			level = model.LevelFloating
		}
		var reasoning, connections, vector *string
		if t.Reasoning != "" {
			reasoning = &t.Reasoning
		}
		if len(t.Connections) > 0 {
			b, _ := json.Marshal(t.Connections)
			str := string(b)
			connections = &str
		}
		if len(t.Vector) > 0 {
			b, _ := json.Marshal(t.Vector)
			str := string(b)
			vector = &str
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO thoughts (id, content, level, created_at, reasoning, completed, connections, vector)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				content = excluded.content,
				level = excluded.level,
				created_at = excluded.created_at,
				reasoning = excluded.reasoning,
				completed = excluded.completed,
				connections = excluded.connections,
				vector = excluded.vector`,
			t.ID, t.Content, string(level), t.Timestamp.UTC().Format(time.RFC3339Nano),
			reasoning, boolToInt(t.Completed), connections, vector)
		if err != nil {
			return 0, fmt.Errorf("import thought %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	s.events.emit(Event{Op: OpSync, Detail: fmt.Sprintf("imported %d thoughts", len(thoughts)), Time: time.Now()})
	return len(thoughts), nil
}

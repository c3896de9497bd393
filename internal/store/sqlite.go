package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/CyberDoctor2023/Life-Orbit/internal/model"
)

// SQLiteStore implements Store using SQLite.
// Embedding vectors are stored as JSON-encoded float32 arrays in a column,
// which keeps the store dependency-free of native vector extensions while
// ranking happens in process.
type SQLiteStore struct {
	db     *sql.DB
	events *eventLog
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db, events: newEventLog()}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	s.events.emit(Event{Op: OpSync, Detail: "store opened", Time: time.Now()})

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS thoughts (
		id          TEXT PRIMARY KEY,
		content     TEXT NOT NULL,
		level       TEXT NOT NULL DEFAULT 'FLOATING',
		created_at  TEXT NOT NULL,
		reasoning   TEXT,
		completed   INTEGER NOT NULL DEFAULT 0,
		connections TEXT,
		vector      TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_thoughts_created ON thoughts(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_thoughts_level ON thoughts(level);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Subscribe registers an event listener.
func (s *SQLiteStore) Subscribe(fn func(Event)) func() {
	return s.events.subscribe(fn)
}

// RecentEvents returns the retained operation events, newest first.
func (s *SQLiteStore) RecentEvents() []Event {
	return s.events.Recent()
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]model.Thought, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, level, created_at, reasoning, completed, connections, vector
		FROM thoughts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var thoughts []model.Thought
	for rows.Next() {
		t, err := scanThought(rows)
		if err != nil {
			return nil, err
		}
		thoughts = append(thoughts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.events.emit(Event{Op: OpQuery, Detail: fmt.Sprintf("fetched %d thoughts", len(thoughts)), Time: time.Now()})
	return thoughts, nil
}

func (s *SQLiteStore) Save(ctx context.Context, t *model.Thought) error {
	if t.ID == "" {
		return fmt.Errorf("thought id is required")
	}
	if t.Content == "" {
		return fmt.Errorf("thought content is required")
	}
	if !model.ValidLevels[t.Level] {
		return fmt.Errorf("invalid level %q", t.Level)
	}

	var connections, vector *string
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
	var reasoning *string
	if t.Reasoning != "" {
		reasoning = &t.Reasoning
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM thoughts WHERE id = ?)`, t.ID).Scan(&exists)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
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
		t.ID, t.Content, string(t.Level), t.Timestamp.UTC().Format(time.RFC3339Nano),
		reasoning, boolToInt(t.Completed), connections, vector)
	if err != nil {
		return fmt.Errorf("save thought: %w", err)
	}

	op := OpInsert
	if exists {
		op = OpUpdate
	}
	s.events.emit(Event{Op: op, ThoughtID: t.ID, Detail: string(t.Level), Time: time.Now()})
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	// Absent ids are a soft success by contract; other thoughts keep any
	// dangling connection ids they hold.
	_, err := s.db.ExecContext(ctx, `DELETE FROM thoughts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	s.events.emit(Event{Op: OpDelete, ThoughtID: id, Detail: "row pruned", Time: time.Now()})
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanThought(row scanner) (model.Thought, error) {
	var t model.Thought
	var level, createdAt string
	var reasoning, connections, vector sql.NullString
	var completed int

	err := row.Scan(&t.ID, &t.Content, &level, &createdAt, &reasoning, &completed, &connections, &vector)
	if err != nil {
		return t, err
	}

	t.Level = model.Level(level)
	t.Timestamp, _ = time.Parse(time.RFC3339Nano, createdAt)
	t.Completed = completed != 0
	if reasoning.Valid {
		t.Reasoning = reasoning.String
	}
	if connections.Valid {
		json.Unmarshal([]byte(connections.String), &t.Connections)
	}
	if vector.Valid {
		json.Unmarshal([]byte(vector.String), &t.Vector)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

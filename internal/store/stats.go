package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath        string         `json:"db_path"`
	DBSizeBytes   int64          `json:"db_size_bytes"`
	TotalThoughts int            `json:"total_thoughts"`
	Completed     int            `json:"completed"`
	Embedded      int            `json:"embedded"`
	LevelCounts   map[string]int `json:"levels"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath, LevelCounts: map[string]int{}}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM thoughts`).Scan(&st.TotalThoughts)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM thoughts WHERE completed = 1`).Scan(&st.Completed)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM thoughts WHERE vector IS NOT NULL`).Scan(&st.Embedded)

	rows, err := s.db.QueryContext(ctx, `SELECT level, COUNT(*) FROM thoughts GROUP BY level`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var level string
		var count int
		rows.Scan(&level, &count)
		st.LevelCounts[level] = count
	}

	return st, nil
}

// Package model defines the core thought data types.
package model

import "time"

// Level is the orbit tier a thought is placed in.
type Level string

const (
	LevelSurvival Level = "SURVIVAL"
	LevelGrowth   Level = "GROWTH"
	LevelVision   Level = "VISION"
	LevelFloating Level = "FLOATING"
)

// ValidLevels are the allowed orbit levels.
var ValidLevels = map[Level]bool{
	LevelSurvival: true,
	LevelGrowth:   true,
	LevelVision:   true,
	LevelFloating: true,
}

// ClassifiableLevels are the levels the classifier may assign.
// FLOATING is reserved for manual placement only.
var ClassifiableLevels = map[Level]bool{
	LevelSurvival: true,
	LevelGrowth:   true,
	LevelVision:   true,
}

// Thought represents a stored thought entry.
//
// Similarity is only populated on search results and is never persisted.
type Thought struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Level       Level     `json:"level"`
	Timestamp   time.Time `json:"timestamp"`
	Reasoning   string    `json:"reasoning,omitempty"`
	Completed   bool      `json:"completed"`
	Connections []string  `json:"connections,omitempty"`
	Vector      []float32 `json:"vector,omitempty"`
	Similarity  float64   `json:"similarity,omitempty"`
}

// HasVector reports whether the thought carries an embedding.
func (t *Thought) HasVector() bool {
	return len(t.Vector) > 0
}

// Package classify wraps the external text-generation capability that assigns
// an orbit level to a thought given its retrieved context.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CyberDoctor2023/Life-Orbit/internal/model"
)

// ContextPair is one retrieved memory handed to the classifier.
type ContextPair struct {
	Similarity float64
	Content    string
}

// Result is a parsed classification.
type Result struct {
	Level     model.Level `json:"level"`
	Reasoning string      `json:"reasoning"`
}

// Classifier assigns a level and reasoning to a thought.
// Implementations do not retry; the pipeline applies its own fallback.
type Classifier interface {
	Classify(ctx context.Context, text string, pairs []ContextPair) (*Result, error)
}

// buildPrompt renders the classification request. Context pairs are expected
// in descending similarity order.
func buildPrompt(text string, pairs []ContextPair) string {
	var sb strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&sb, "[relevance: %.0f%%] %s\n", p.Similarity*100, p.Content)
	}
	contextText := sb.String()
	if contextText == "" {
		contextText = "No history.\n"
	}

	return fmt.Sprintf(`You are a hippocampus-style brain with retrieval-augmented memory.

New thought: %q

Retrieved related memories:
%s
Task:
1. Using the related memories, analyze where this thought sits in the user's life orbit.
2. Classify it: SURVIVAL (chores, immediate focus), GROWTH (skills, projects), VISION (long-term aspirations).
3. Give one short, insightful sentence of reasoning.

Respond with JSON only: {"level": "SURVIVAL"|"GROWTH"|"VISION", "reasoning": "..."}`, text, contextText)
}

// parseResult extracts a Result from model output, tolerating markdown fences.
func parseResult(raw string) (*Result, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	// Some models wrap the object in prose; cut to the outermost braces.
	if i := strings.Index(s, "{"); i > 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			s = s[i : j+1]
		}
	}

	var res Result
	if err := json.Unmarshal([]byte(s), &res); err != nil {
		return nil, fmt.Errorf("invalid JSON from classifier: %w", err)
	}
	if !model.ClassifiableLevels[res.Level] {
		return nil, fmt.Errorf("classifier returned invalid level %q", res.Level)
	}
	if strings.TrimSpace(res.Reasoning) == "" {
		return nil, fmt.Errorf("classifier returned empty reasoning")
	}
	return &res, nil
}

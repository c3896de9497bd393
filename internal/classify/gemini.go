package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GeminiClassifier calls the Google Generative Language API with a JSON
// response schema so the reply is directly parseable.
type GeminiClassifier struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewGeminiClassifier creates a classifier using the Gemini API.
func NewGeminiClassifier(apiKey, model string) *GeminiClassifier {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiClassifier{
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiGenRequest struct {
	Contents         []geminiGenContent `json:"contents"`
	GenerationConfig geminiGenConfig    `json:"generationConfig"`
}

type geminiGenContent struct {
	Parts []geminiGenPart `json:"parts"`
}

type geminiGenPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type geminiGenResponse struct {
	Candidates []struct {
		Content geminiGenContent `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClassifier) Classify(ctx context.Context, text string, pairs []ContextPair) (*Result, error) {
	body, _ := json.Marshal(geminiGenRequest{
		Contents: []geminiGenContent{{Parts: []geminiGenPart{{Text: buildPrompt(text, pairs)}}}},
		GenerationConfig: geminiGenConfig{
			ResponseMimeType: "application/json",
			ResponseSchema: map[string]any{
				"type": "OBJECT",
				"properties": map[string]any{
					"level":     map[string]any{"type": "STRING", "enum": []string{"SURVIVAL", "GROWTH", "VISION"}},
					"reasoning": map[string]any{"type": "STRING"},
				},
				"required": []string{"level", "reasoning"},
			},
		},
	})

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini error %d: %s", resp.StatusCode, string(b))
	}

	var out geminiGenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no candidates returned")
	}
	return parseResult(out.Candidates[0].Content.Parts[0].Text)
}

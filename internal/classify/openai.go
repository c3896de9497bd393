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

// OpenAIClassifier calls any OpenAI-compatible chat completions API
// (OpenAI itself, Ollama, vLLM, etc).
type OpenAIClassifier struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewOpenAIClassifier creates a classifier using an OpenAI-compatible API.
func NewOpenAIClassifier(baseURL, apiKey, model string) *OpenAIClassifier {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClassifier{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type openaiChatRequest struct {
	Model          string          `json:"model"`
	Messages       []openaiChatMsg `json:"messages"`
	ResponseFormat *openaiRespFmt  `json:"response_format,omitempty"`
}

type openaiChatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiRespFmt struct {
	Type string `json:"type"`
}

type openaiChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClassifier) Classify(ctx context.Context, text string, pairs []ContextPair) (*Result, error) {
	body, _ := json.Marshal(openaiChatRequest{
		Model: c.model,
		Messages: []openaiChatMsg{
			{Role: "system", Content: "You classify thoughts into life-orbit tiers. Respond with JSON only."},
			{Role: "user", Content: buildPrompt(text, pairs)},
		},
		ResponseFormat: &openaiRespFmt{Type: "json_object"},
	})

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openai error %d: %s", resp.StatusCode, string(b))
	}

	var out openaiChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}
	return parseResult(out.Choices[0].Message.Content)
}

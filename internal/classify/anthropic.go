package classify

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClassifier calls the Claude Messages API.
type AnthropicClassifier struct {
	client anthropic.Client
	model  string
}

// NewAnthropicClassifier creates a classifier using the Anthropic SDK.
func NewAnthropicClassifier(apiKey, model string) *AnthropicClassifier {
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	return &AnthropicClassifier{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *AnthropicClassifier) Classify(ctx context.Context, text string, pairs []ContextPair) (*Result, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: "You classify thoughts into life-orbit tiers. Respond with JSON only."},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(text, pairs))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	var out string
	for _, block := range resp.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	if out == "" {
		return nil, fmt.Errorf("no text content returned")
	}
	return parseResult(out)
}

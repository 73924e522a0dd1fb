// Package llm implements the classification backend on the OpenAI chat
// completions API. The pipeline treats the response as untrusted text and
// decodes it defensively on its side.
package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"NewsRadar/internal/config"
	"NewsRadar/internal/ports"
)

// Client sends one blocking completion request per classification batch.
type Client struct {
	client openai.Client
	model  string
}

var _ ports.Classifier = (*Client)(nil)

// NewClient builds a classifier client from configuration.
func NewClient(cfg config.ClassifierConfig) *Client {
	return &Client{
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
	}
}

// Generate runs the prompt and returns the raw response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(prompt),
					},
				},
			},
		},
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return response.Choices[0].Message.Content, nil
}

package llm

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient wraps an OpenAI-compatible API client.
type OpenAIClient struct {
	api         *openai.Client
	model       string
	temperature float32
}

// NewOpenAI creates a client for an OpenAI-compatible endpoint. An empty
// baseURL uses the OpenAI API.
func NewOpenAI(baseURL, apiKey, modelName string, temperature float32) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIClient{
		api:         openai.NewClientWithConfig(config),
		model:       modelName,
		temperature: temperature,
	}
}

// Complete sends prompt as a single user message and returns the text of the
// first choice.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "model", c.model, "raw", raw)
	return raw, nil
}

// Ping lists models to verify the endpoint answers.
func (c *OpenAIClient) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// Close is a no-op; the HTTP client needs no cleanup.
func (c *OpenAIClient) Close() error { return nil }

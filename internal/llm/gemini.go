package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient wraps the Gemini generative language API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

// NewGemini creates a Gemini client for modelName.
func NewGemini(ctx context.Context, apiKey, modelName string, temperature float32) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)

	return &GeminiClient{client: client, model: model, name: modelName}, nil
}

// Complete generates content for prompt and returns the concatenated text
// parts of all candidates.
func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API call: %w", err)
	}

	raw := strings.TrimSpace(extractText(resp))
	if raw == "" {
		return "", fmt.Errorf("Gemini returned no text")
	}
	slog.Debug("LLM response", "model", g.name, "raw", raw)
	return raw, nil
}

// Ping fetches model metadata to verify the key and model name.
func (g *GeminiClient) Ping(ctx context.Context) error {
	if _, err := g.model.Info(ctx); err != nil {
		return fmt.Errorf("model info: %w", err)
	}
	return nil
}

// Close releases the underlying gRPC connection.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	return text.String()
}

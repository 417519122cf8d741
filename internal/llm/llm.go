package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnconfigured is returned when no model provider or credential is set.
var ErrUnconfigured = errors.New("LLM provider is not configured")

// Provider names accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Completer turns a prompt into free-form text. Implementations make a single
// call with no retries.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client is a Completer backed by a remote model.
type Client interface {
	Completer
	// Ping checks that the endpoint is reachable and the model exists.
	Ping(ctx context.Context) error
	Close() error
}

// Config selects and configures a model provider.
type Config struct {
	Provider    string
	BaseURL     string // OpenAI-compatible endpoints only
	APIKey      string
	Model       string
	Temperature float32
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderGemini:
		return "gemini-1.5-flash"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	default:
		return ""
	}
}

// New creates a Client for cfg.Provider. It returns ErrUnconfigured when the
// provider is "none" or no API key is set.
func New(ctx context.Context, cfg Config) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" || provider == ProviderNone || cfg.APIKey == "" {
		return nil, ErrUnconfigured
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(provider)
	}

	switch provider {
	case ProviderOpenAI:
		return NewOpenAI(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Temperature), nil
	case ProviderGemini:
		return NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.Temperature)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

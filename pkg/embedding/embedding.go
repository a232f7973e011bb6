// Package embedding generates query vectors for semantic search. Two
// backends are supported: the native GenAI SDK and any OpenAI-compatible
// embeddings endpoint.
package embedding

import (
	"context"
	"fmt"
	"time"
)

// Engine generates vector embeddings for text.
type Engine interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Config struct {
	// Provider: "genai" or "openai".
	Provider string        `envconfig:"PROVIDER" split_words:"true" default:"genai"`
	APIKey   string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model    string        `envconfig:"MODEL" split_words:"true" default:"gemini-embedding-001"`
	TaskType string        `envconfig:"TASK_TYPE" split_words:"true" default:"RETRIEVAL_QUERY"`
	BaseURL  string        `envconfig:"BASE_URL" split_words:"true" default:"https://generativelanguage.googleapis.com/v1beta/openai"`
	Timeout  time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"15s"`
}

// NewEngine creates an embedding engine for the configured provider.
func NewEngine(ctx context.Context, cfg Config) (Engine, error) {
	switch cfg.Provider {
	case "genai":
		return newGenAIEngine(ctx, cfg)
	case "openai":
		return newOpenAIEngine(cfg)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s (use 'genai' or 'openai')", cfg.Provider)
	}
}

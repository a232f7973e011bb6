package embedding

import (
	"context"
	"testing"
)

func TestNewEngineUnsupportedProvider(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(context.Background(), Config{Provider: "ollama", APIKey: "k"})
	if err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestNewOpenAIEngineRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := newOpenAIEngine(Config{}); err == nil {
		t.Fatal("expected error without an api key")
	}
}

func TestNewOpenAIEngine(t *testing.T) {
	t.Parallel()

	engine, err := newOpenAIEngine(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatal(err)
	}
	if engine.client == nil {
		t.Fatal("engine missing its sdk client")
	}
	if engine.model != "text-embedding-004" {
		t.Fatalf("expected default model, got %q", engine.model)
	}
}

package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/nycscout/agent/agent/contract"
	geminix "github.com/nycscout/agent/pkg/gemini"
)

// openAIEngine generates embeddings through an OpenAI-compatible endpoint
// (Gemini's compatibility layer by default).
type openAIEngine struct {
	client *openaisdk.Client
	model  string
}

func newOpenAIEngine(cfg Config) (*openAIEngine, error) {
	client := geminix.NewClient(geminix.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
	})
	if client == nil {
		return nil, errors.New("embeddings api key is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "text-embedding-004"
	}

	return &openAIEngine{client: client, model: model}, nil
}

func (e *openAIEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Model: openaisdk.EmbeddingModel(e.model),
		Input: openaisdk.EmbeddingNewParamsInputUnion{
			OfString: openaisdk.String(text),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai: %v", contractx.ErrEmbedding, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: openai returned no embeddings", contractx.ErrEmbedding)
	}

	values := resp.Data[0].Embedding
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out, nil
}

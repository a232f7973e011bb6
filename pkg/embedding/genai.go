package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	contractx "github.com/nycscout/agent/agent/contract"
)

// genAIEngine generates embeddings through the native Gemini SDK.
type genAIEngine struct {
	client   *genai.Client
	model    string
	taskType string
}

func newGenAIEngine(ctx context.Context, cfg Config) (*genAIEngine, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("genai api key is required")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-embedding-001"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &genAIEngine{
		client:   client,
		model:    model,
		taskType: parseTaskType(cfg.TaskType),
	}, nil
}

func parseTaskType(taskType string) string {
	switch taskType {
	case "SEMANTIC_SIMILARITY":
		return "SEMANTIC_SIMILARITY"
	case "RETRIEVAL_DOCUMENT":
		return "RETRIEVAL_DOCUMENT"
	case "RETRIEVAL_QUERY", "":
		return "RETRIEVAL_QUERY"
	default:
		return "RETRIEVAL_QUERY"
	}
}

func (e *genAIEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := e.client.Models.EmbedContent(ctx,
		e.model,
		contents,
		&genai.EmbedContentConfig{
			TaskType: e.taskType,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: genai: %v", contractx.ErrEmbedding, err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: genai returned no embeddings", contractx.ErrEmbedding)
	}
	return result.Embeddings[0].Values, nil
}
